package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func TestRootCommands(t *testing.T) {
	for _, name := range []string{"categorize", "categories", "cache", "history", "version"} {
		assert.NotNil(t, findCommand(rootCmd, name), "%s command should exist", name)
	}

	for _, name := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "%s flag should exist", name)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "moneyspice dev\n", out.String())
}

func TestSubcommands(t *testing.T) {
	categories := categoriesCmd()
	for _, name := range []string{"list", "search", "export"} {
		assert.NotNil(t, findCommand(categories, name), "categories %s should exist", name)
	}
	assert.NotNil(t, categories.PersistentFlags().Lookup("from-file"))

	cache := cacheCmd()
	assert.NotNil(t, findCommand(cache, "stats"))
	assert.NotNil(t, findCommand(cache, "clear"))

	flag := historyCmd().Flag("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "20", flag.DefValue)
}
