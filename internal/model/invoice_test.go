package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoice_OutstandingAt(t *testing.T) {
	asOf := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	before := asOf.AddDate(0, -1, 0)
	after := asOf.AddDate(0, 1, 0)

	tests := []struct {
		paid *time.Time
		name string
		want bool
	}{
		{nil, "unpaid", true},
		{&before, "paid before snapshot", false},
		{&asOf, "paid on snapshot date", false},
		{&after, "paid after snapshot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Invoice{PaidDate: tt.paid}
			assert.Equal(t, tt.want, inv.OutstandingAt(asOf))
		})
	}
}

func TestDebtSnapshot_TotalOutstanding(t *testing.T) {
	snap := DebtSnapshot{
		Bucket0to3:  decimal.NewFromFloat(100.50),
		Bucket3to6:  decimal.NewFromFloat(200.25),
		Bucket6Plus: decimal.NewFromFloat(300),
	}
	assert.True(t, snap.TotalOutstanding().Equal(decimal.NewFromFloat(600.75)))
}

func TestDebtSnapshot_TotalOutstandingZeroValue(t *testing.T) {
	var snap DebtSnapshot
	assert.True(t, snap.TotalOutstanding().IsZero())
}
