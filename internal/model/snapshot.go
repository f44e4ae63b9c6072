package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtSnapshot is the month-end debt position of a single customer,
// recomputed in full on every run.
type DebtSnapshot struct {
	AsOfMonth      time.Time
	Customer       string
	BilledInvoices []string
	Bucket0to3     decimal.Decimal
	Bucket3to6     decimal.Decimal
	Bucket6Plus    decimal.Decimal
	Billed         decimal.Decimal
	Crossed3Months decimal.Decimal
	Variation      decimal.Decimal
	BilledCount    int
	CurrentMonth   bool
}

// TotalOutstanding returns the customer's outstanding balance for the
// snapshot month. It is always the sum of the three age buckets.
func (s *DebtSnapshot) TotalOutstanding() decimal.Decimal {
	return s.Bucket0to3.Add(s.Bucket3to6).Add(s.Bucket6Plus)
}
