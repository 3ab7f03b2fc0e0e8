package model

import (
	"fmt"
	"time"
)

// Transaction is a MoneyMoney transaction awaiting a category.
type Transaction struct {
	BookingDate time.Time
	ValueDate   time.Time
	ID          string
	AccountID   string
	AccountName string
	Name        string // counterparty or merchant
	Purpose     string
	Comment     string
	BookingText string
	Currency    string
	Category    string // empty when uncategorized
	Amount      float64
	Booked      bool
}

// Uncategorized reports whether the transaction has no category yet.
func (t Transaction) Uncategorized() bool {
	return t.Category == ""
}

// FormattedAmount renders the amount with its currency.
func (t Transaction) FormattedAmount() string {
	if t.Currency == "" {
		return fmt.Sprintf("%.2f", t.Amount)
	}
	return fmt.Sprintf("%.2f %s", t.Amount, t.Currency)
}
