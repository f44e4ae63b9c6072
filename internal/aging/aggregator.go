// Package aging computes month-end debt snapshots from normalized invoices.
package aging

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ebarrena/consolida/internal/model"
)

// daysPerMonth is the average Gregorian month length used to convert an
// overdue span in days into fractional months.
const daysPerMonth = 30.44

// Bucket thresholds in months since the due date.
const (
	bucketMid = 3.0
	bucketOld = 6.0
)

// Aggregate builds one snapshot per (customer, month) with activity,
// covering the first invoiced month through the month of now. Snapshots
// are sorted by customer then month, so identical input always produces
// identical output.
func Aggregate(invoices []model.Invoice, now time.Time) []model.DebtSnapshot {
	if len(invoices) == 0 {
		return nil
	}

	start, end := monthRange(invoices, now)
	customers := customerList(invoices)

	var snapshots []model.DebtSnapshot
	prevTotals := make(map[string]decimal.Decimal, len(customers))

	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		currentMonth := month.Year() == now.Year() && month.Month() == now.Month()

		for _, customer := range customers {
			snap := buildSnapshot(invoices, customer, month)
			if snap == nil {
				prevTotals[customer] = decimal.Zero
				continue
			}

			total := snap.TotalOutstanding()
			snap.Variation = total.Sub(prevTotals[customer])
			snap.CurrentMonth = currentMonth
			prevTotals[customer] = total

			snapshots = append(snapshots, *snap)
		}
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Customer != snapshots[j].Customer {
			return snapshots[i].Customer < snapshots[j].Customer
		}
		return snapshots[i].AsOfMonth.Before(snapshots[j].AsOfMonth)
	})

	return snapshots
}

// buildSnapshot computes a single customer's position as of the first
// day of month. Returns nil when the customer had no billing and no
// outstanding balance that month.
func buildSnapshot(invoices []model.Invoice, customer string, month time.Time) *model.DebtSnapshot {
	snap := &model.DebtSnapshot{
		Customer:  customer,
		AsOfMonth: month,
	}
	prevMonth := month.AddDate(0, -1, 0)
	active := false

	for i := range invoices {
		inv := &invoices[i]
		if inv.Customer != customer {
			continue
		}

		if sameMonth(inv.IssueDate, month) {
			snap.Billed = snap.Billed.Add(inv.Amount)
			snap.BilledCount++
			if inv.Number != "" {
				snap.BilledInvoices = append(snap.BilledInvoices, inv.Number)
			}
			active = true
		}

		// Debt only considers invoices issued on or before the
		// snapshot date.
		if inv.IssueDate.After(month) || !inv.OutstandingAt(month) {
			continue
		}
		active = true

		age := monthsSince(inv.DueDate, month)
		switch {
		case age < bucketMid:
			// Includes not-yet-due invoices, so the three buckets
			// always sum to the full outstanding balance.
			snap.Bucket0to3 = snap.Bucket0to3.Add(inv.Amount)
		case age < bucketOld:
			snap.Bucket3to6 = snap.Bucket3to6.Add(inv.Amount)
		default:
			snap.Bucket6Plus = snap.Bucket6Plus.Add(inv.Amount)
		}

		if age >= bucketMid && monthsSince(inv.DueDate, prevMonth) < bucketMid {
			snap.Crossed3Months = snap.Crossed3Months.Add(inv.Amount)
		}
	}

	if !active {
		return nil
	}
	return snap
}

// monthsSince converts the span from due to asOf into fractional months.
// Negative when the invoice is not yet due.
func monthsSince(due, asOf time.Time) float64 {
	return asOf.Sub(due).Hours() / 24 / daysPerMonth
}

func monthRange(invoices []model.Invoice, now time.Time) (start, end time.Time) {
	min, max := invoices[0].IssueDate, invoices[0].IssueDate
	for i := range invoices {
		if invoices[i].IssueDate.Before(min) {
			min = invoices[i].IssueDate
		}
		if invoices[i].IssueDate.After(max) {
			max = invoices[i].IssueDate
		}
	}
	if now.After(max) {
		max = now
	}
	return startOfMonth(min), startOfMonth(max)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func customerList(invoices []model.Invoice) []string {
	seen := make(map[string]struct{})
	var customers []string
	for i := range invoices {
		if _, ok := seen[invoices[i].Customer]; !ok {
			seen[invoices[i].Customer] = struct{}{}
			customers = append(customers, invoices[i].Customer)
		}
	}
	sort.Strings(customers)
	return customers
}
