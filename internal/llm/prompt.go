package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/moneyspice/internal/catalog"
	"github.com/Veraticus/moneyspice/internal/model"
)

// Reward programs append lines like "Saveback 1,23 €" to the purpose; they
// say nothing about what was bought.
var rewardNoise = regexp.MustCompile(`(?i)(saveback|cashback):?\s*[\d,.\s€$]+`)

// CleanPurpose strips reward program noise from a transaction purpose.
func CleanPurpose(purpose string) string {
	return strings.TrimSpace(rewardNoise.ReplaceAllString(purpose, ""))
}

// BuildPrompt renders the categorization prompt for one transaction.
func BuildPrompt(txn model.Transaction, tree *catalog.Tree, numSuggestions int) string {
	var b strings.Builder

	b.WriteString("You are a financial transaction categorization assistant. ")
	b.WriteString("Analyze the following transaction and suggest the most appropriate categories from the provided list.\n\n")
	b.WriteString("IMPORTANT: Only suggest categories that are in the provided list. ")
	b.WriteString("Each suggestion must include the exact category path and UUID from the list.\n\n")
	b.WriteString("The categories are organized hierarchically:\n")
	b.WriteString("- Higher levels are more specific than lower levels\n")
	b.WriteString("- Parent categories explain what a category is for\n")
	b.WriteString("- Choose the most specific category that matches\n\n")

	b.WriteString("Transaction Details:\n")
	fmt.Fprintf(&b, "Merchant/Name: %s\n", orUnknown(txn.Name))
	fmt.Fprintf(&b, "Amount: %s\n", txn.FormattedAmount())
	if p := CleanPurpose(txn.Purpose); p != "" {
		fmt.Fprintf(&b, "Description: %s\n", p)
	}
	if txn.Comment != "" {
		fmt.Fprintf(&b, "User Comment: %s\n", txn.Comment)
	}
	if txn.BookingText != "" {
		fmt.Fprintf(&b, "Bank Booking Text: %s\n", txn.BookingText)
	}

	b.WriteString("\nAvailable Categories:\n")
	for c := range tree.Assignable() {
		fmt.Fprintf(&b, "- %s (UUID: %s)", c.FullPath(), c.ID)
		if parent := c.ParentPath(); parent != "" {
			fmt.Fprintf(&b, " [Parent: %s]", parent)
		}
		fmt.Fprintf(&b, " [Level: %d]\n", c.Level)
	}

	fmt.Fprintf(&b, "\nProvide your top %d category suggestions as JSON:\n", numSuggestions)
	b.WriteString(`{
  "suggestions": [
    {
      "category_path": "Exact category path from the list",
      "uuid": "exact-uuid-from-list",
      "confidence": 0.85,
      "reasoning": "Brief explanation"
    }
  ]
}
`)
	b.WriteString("\nGuidelines:\n")
	b.WriteString("1. Focus primarily on the merchant or company name\n")
	b.WriteString("2. Use the amount, comment and booking text as context\n")
	b.WriteString("3. Ignore saveback and cashback information\n")
	b.WriteString("4. Each UUID may appear only once\n\n")
	b.WriteString("Respond only with valid JSON.")

	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
