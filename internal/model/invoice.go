// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a single billing row sourced from a year tab.
type Invoice struct {
	IssueDate time.Time
	DueDate   time.Time
	PaidDate  *time.Time
	Number    string
	Customer  string
	Amount    decimal.Decimal
	Year      int
}

// OutstandingAt reports whether the invoice is still unpaid as of the
// given snapshot date. A payment recorded after the snapshot date does
// not count for that snapshot.
func (inv *Invoice) OutstandingAt(asOf time.Time) bool {
	return inv.PaidDate == nil || inv.PaidDate.After(asOf)
}
