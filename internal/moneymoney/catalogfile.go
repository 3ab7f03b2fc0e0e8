package moneymoney

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/moneyspice/internal/model"
)

// catalogFile is the on-disk layout of an exported category hierarchy. It
// accepts YAML and, since YAML is a superset of it, JSON.
type catalogFile struct {
	Categories []model.RawCategory `yaml:"categories"`
}

// LoadCatalogFile reads a category hierarchy saved with SaveCatalogFile or
// written by hand. Nodes may nest through children or link through
// parent_id.
func LoadCatalogFile(path string) ([]model.RawCategory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return f.Categories, nil
}

// SaveCatalogFile writes a hierarchy so it can be used without MoneyMoney.
func SaveCatalogFile(path string, raw []model.RawCategory) error {
	data, err := yaml.Marshal(catalogFile{Categories: raw})
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}
