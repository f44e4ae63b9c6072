package aging

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarrena/consolida/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func findSnapshot(t *testing.T, snapshots []model.DebtSnapshot, customer string, month time.Time) *model.DebtSnapshot {
	t.Helper()
	for i := range snapshots {
		if snapshots[i].Customer == customer && snapshots[i].AsOfMonth.Equal(month) {
			return &snapshots[i]
		}
	}
	t.Fatalf("no snapshot for %s at %s", customer, month.Format("2006-01-02"))
	return nil
}

func TestAggregate_BucketsByAge(t *testing.T) {
	// One invoice due 2024-01-15, evaluated as of 2024-05-01: 107 days
	// overdue is roughly 3.5 months, landing in the 3-6 bucket.
	invoices := []model.Invoice{
		{
			Number:    "F-001",
			Customer:  "A1",
			Amount:    amount("1234.56"),
			IssueDate: date(2024, 1, 15),
			DueDate:   date(2024, 1, 15),
		},
	}

	snapshots := Aggregate(invoices, date(2024, 5, 1))

	snap := findSnapshot(t, snapshots, "A1", date(2024, 5, 1))
	assert.True(t, snap.Bucket0to3.IsZero(), "bucket 0-3 = %s", snap.Bucket0to3)
	assert.True(t, snap.Bucket3to6.Equal(amount("1234.56")), "bucket 3-6 = %s", snap.Bucket3to6)
	assert.True(t, snap.Bucket6Plus.IsZero(), "bucket 6+ = %s", snap.Bucket6Plus)

	// The same invoice just crossed the 3-month boundary this month.
	assert.True(t, snap.Crossed3Months.Equal(amount("1234.56")))

	// Earlier months classify it young.
	feb := findSnapshot(t, snapshots, "A1", date(2024, 2, 1))
	assert.True(t, feb.Bucket0to3.Equal(amount("1234.56")))
	assert.True(t, feb.Crossed3Months.IsZero())

	// Very old debt lands in the 6+ bucket.
	old := Aggregate(invoices, date(2025, 1, 1))
	last := findSnapshot(t, old, "A1", date(2025, 1, 1))
	assert.True(t, last.Bucket6Plus.Equal(amount("1234.56")))
}

func TestAggregate_BucketSumEqualsOutstanding(t *testing.T) {
	paid := date(2024, 3, 10)
	invoices := []model.Invoice{
		// Not yet due at the snapshot: still outstanding, young bucket.
		{Customer: "A1", Amount: amount("100.00"), IssueDate: date(2024, 4, 1), DueDate: date(2024, 8, 1)},
		// Overdue 3-6 months.
		{Customer: "A1", Amount: amount("200.00"), IssueDate: date(2024, 1, 5), DueDate: date(2024, 1, 5)},
		// Overdue more than 6 months.
		{Customer: "A1", Amount: amount("300.00"), IssueDate: date(2023, 9, 1), DueDate: date(2023, 9, 1)},
		// Paid before the snapshot: not outstanding at all.
		{Customer: "A1", Amount: amount("400.00"), IssueDate: date(2024, 1, 5), DueDate: date(2024, 1, 5), PaidDate: &paid},
	}

	snapshots := Aggregate(invoices, date(2024, 5, 1))
	snap := findSnapshot(t, snapshots, "A1", date(2024, 5, 1))

	sum := snap.Bucket0to3.Add(snap.Bucket3to6).Add(snap.Bucket6Plus)
	assert.True(t, sum.Equal(snap.TotalOutstanding()))
	assert.True(t, snap.TotalOutstanding().Equal(amount("600.00")),
		"outstanding = %s", snap.TotalOutstanding())
	assert.True(t, snap.Bucket0to3.Equal(amount("100.00")))
	assert.True(t, snap.Bucket3to6.Equal(amount("200.00")))
	assert.True(t, snap.Bucket6Plus.Equal(amount("300.00")))

	// The invariant holds for every emitted snapshot, not just the last.
	for i := range snapshots {
		s := &snapshots[i]
		total := s.Bucket0to3.Add(s.Bucket3to6).Add(s.Bucket6Plus)
		assert.True(t, total.Equal(s.TotalOutstanding()),
			"%s at %s", s.Customer, s.AsOfMonth.Format("2006-01"))
	}
}

func TestAggregate_PaymentAfterSnapshotStillCounts(t *testing.T) {
	paid := date(2024, 6, 15)
	invoices := []model.Invoice{
		{Customer: "A1", Amount: amount("50.00"), IssueDate: date(2024, 1, 10), DueDate: date(2024, 1, 10), PaidDate: &paid},
	}

	snapshots := Aggregate(invoices, date(2024, 7, 1))

	// Outstanding in May (payment came later)...
	may := findSnapshot(t, snapshots, "A1", date(2024, 5, 1))
	assert.True(t, may.TotalOutstanding().Equal(amount("50.00")))

	// ...but gone by July: nothing outstanding and nothing billed means
	// no row at all.
	for i := range snapshots {
		assert.False(t, snapshots[i].AsOfMonth.Equal(date(2024, 7, 1)),
			"unexpected July snapshot: %+v", snapshots[i])
	}
}

func TestAggregate_BillingAndVariation(t *testing.T) {
	invoices := []model.Invoice{
		{Number: "F-001", Customer: "A1", Amount: amount("100.00"), IssueDate: date(2024, 1, 10), DueDate: date(2024, 2, 10)},
		{Number: "F-002", Customer: "A1", Amount: amount("150.00"), IssueDate: date(2024, 1, 20), DueDate: date(2024, 2, 20)},
		{Number: "F-003", Customer: "A1", Amount: amount("75.00"), IssueDate: date(2024, 2, 5), DueDate: date(2024, 3, 5)},
	}

	snapshots := Aggregate(invoices, date(2024, 2, 1))

	jan := findSnapshot(t, snapshots, "A1", date(2024, 1, 1))
	assert.True(t, jan.Billed.Equal(amount("250.00")))
	assert.Equal(t, 2, jan.BilledCount)
	assert.Equal(t, []string{"F-001", "F-002"}, jan.BilledInvoices)
	// Issued after the snapshot date: billing counts them, debt does not.
	assert.True(t, jan.TotalOutstanding().IsZero())
	assert.True(t, jan.Variation.IsZero())

	feb := findSnapshot(t, snapshots, "A1", date(2024, 2, 1))
	assert.True(t, feb.Billed.Equal(amount("75.00")))
	assert.True(t, feb.TotalOutstanding().Equal(amount("250.00")))
	assert.True(t, feb.Variation.Equal(amount("250.00")))
	assert.True(t, feb.CurrentMonth)
	assert.False(t, jan.CurrentMonth)
}

func TestAggregate_Deterministic(t *testing.T) {
	invoices := []model.Invoice{
		{Number: "1", Customer: "Beta", Amount: amount("10.00"), IssueDate: date(2024, 1, 1), DueDate: date(2024, 1, 1)},
		{Number: "2", Customer: "Acme", Amount: amount("20.00"), IssueDate: date(2024, 2, 1), DueDate: date(2024, 2, 1)},
		{Number: "3", Customer: "Acme", Amount: amount("30.00"), IssueDate: date(2023, 11, 1), DueDate: date(2023, 12, 1)},
	}
	now := date(2024, 3, 15)

	first := Aggregate(invoices, now)
	second := Aggregate(invoices, now)
	require.Equal(t, first, second)

	// Sorted by customer, then month.
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if prev.Customer == cur.Customer {
			assert.True(t, prev.AsOfMonth.Before(cur.AsOfMonth))
		} else {
			assert.Less(t, prev.Customer, cur.Customer)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, date(2024, 1, 1)))
}

func TestAggregate_QuietMonthsProduceNoRows(t *testing.T) {
	paid := date(2024, 1, 20)
	invoices := []model.Invoice{
		{Customer: "A1", Amount: amount("10.00"), IssueDate: date(2024, 1, 10), DueDate: date(2024, 1, 15), PaidDate: &paid},
	}

	snapshots := Aggregate(invoices, date(2024, 4, 1))

	// January has billing; February through April have nothing.
	require.Len(t, snapshots, 1)
	assert.True(t, snapshots[0].AsOfMonth.Equal(date(2024, 1, 1)))
}
