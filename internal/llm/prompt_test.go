package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/moneyspice/internal/model"
	"github.com/Veraticus/moneyspice/internal/testutil/categories"
)

func TestCleanPurpose(t *testing.T) {
	tests := map[string]string{
		"Kartenzahlung REWE Saveback: 1,23 €":     "Kartenzahlung REWE",
		"CASHBACK 5.00 $ Amazon order":            "Amazon order",
		"Monthly rent":                            "Monthly rent",
		"":                                        "",
		"saveback 0,50 € cashback: 1,00 € Edeka ": "Edeka",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanPurpose(in), in)
	}
}

func TestBuildPrompt(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureStandard).Tree(t)
	txn := model.Transaction{
		ID:          "42",
		Name:        "Blue Bottle",
		Amount:      -4.5,
		Currency:    "EUR",
		Purpose:     "Card payment Saveback 0,05 €",
		Comment:     "morning coffee",
		BookingText: "Kartenzahlung",
	}

	p := BuildPrompt(txn, tree, 3)

	assert.Contains(t, p, "Merchant/Name: Blue Bottle")
	assert.Contains(t, p, "Amount: -4.50 EUR")
	assert.Contains(t, p, "Description: Card payment\n")
	assert.Contains(t, p, "User Comment: morning coffee")
	assert.Contains(t, p, "Bank Booking Text: Kartenzahlung")
	assert.Contains(t, p, "top 3 category suggestions")
	assert.Contains(t, p, `- Food & Dining\Coffee (UUID: `+categories.ID(categories.PathCoffee)+`) [Parent: Food & Dining] [Level: 2]`)
	assert.Contains(t, p, `- Insurance (UUID: `+categories.ID(categories.PathInsurance)+`) [Level: 1]`)
	assert.NotContains(t, p, "(UUID: "+categories.ID(categories.PathFood)+")", "groups are not offered")
	assert.NotContains(t, p, "Saveback")
}

func TestBuildPrompt_UnknownName(t *testing.T) {
	tree := categories.NewBuilder().WithFixture(categories.FixtureMinimal).Tree(t)
	p := BuildPrompt(model.Transaction{Amount: 10}, tree, 5)
	assert.Contains(t, p, "Merchant/Name: Unknown")
	assert.NotContains(t, p, "User Comment")
}
