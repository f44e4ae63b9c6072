package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ebarrena/consolida/internal/model"
	"github.com/ebarrena/consolida/internal/service"
)

// headerAliases maps each invoice field to the header names accepted for
// it, matched case-insensitively. The Spanish names are what the source
// sheets actually use.
var headerAliases = map[string][]string{
	"number":   {"num", "invoice", "factura"},
	"customer": {"cliente", "customer", "client"},
	"issued":   {"fecha", "date", "issue date"},
	"due":      {"vencimiento", "due", "due date"},
	"amount":   {"total", "amount", "importe"},
	"paid":     {"fecha de cobro", "paid", "paid date", "payment date"},
}

// columns holds the resolved column index for each field, -1 when the
// tab has no such column.
type columns struct {
	number   int
	customer int
	issued   int
	due      int
	amount   int
	paid     int
}

// Result is the outcome of normalizing one tab.
type Result struct {
	Invoices []model.Invoice
	Dropped  int
}

// Rows converts a raw tab into typed invoices. Malformed rows are
// dropped with a warning and counted; only a header that cannot be
// mapped at all is an error.
func Rows(tab *service.Tab, logger *slog.Logger) (Result, error) {
	cols, err := mapColumns(tab.Header)
	if err != nil {
		return Result{}, fmt.Errorf("tab %s: %w", tab.Title, err)
	}

	res := Result{Invoices: make([]model.Invoice, 0, len(tab.Rows))}
	for i, row := range tab.Rows {
		if blankRow(row) {
			continue
		}

		inv, err := toInvoice(tab, cols, row, logger)
		if err != nil {
			// Row numbers are 1-based and the header occupies row 1.
			logger.Warn("dropping malformed row",
				"tab", tab.Title,
				"row", i+2,
				"error", err)
			res.Dropped++
			continue
		}
		res.Invoices = append(res.Invoices, inv)
	}

	return res, nil
}

func mapColumns(header []string) (columns, error) {
	find := func(field string) int {
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, alias := range headerAliases[field] {
				if h == alias {
					return i
				}
			}
		}
		return -1
	}

	cols := columns{
		number:   find("number"),
		customer: find("customer"),
		issued:   find("issued"),
		due:      find("due"),
		amount:   find("amount"),
		paid:     find("paid"),
	}

	switch {
	case cols.customer < 0:
		return cols, fmt.Errorf("no customer column in header %v", header)
	case cols.issued < 0:
		return cols, fmt.Errorf("no issue date column in header %v", header)
	case cols.amount < 0:
		return cols, fmt.Errorf("no amount column in header %v", header)
	}

	return cols, nil
}

func toInvoice(tab *service.Tab, cols columns, row []string, logger *slog.Logger) (model.Invoice, error) {
	inv := model.Invoice{
		Number:   cell(row, cols.number),
		Customer: cell(row, cols.customer),
		Year:     tab.Year,
	}

	if inv.Customer == "" {
		return inv, fmt.Errorf("missing customer")
	}

	amount, err := ParseCurrency(cell(row, cols.amount))
	if err != nil {
		return inv, err
	}
	inv.Amount = amount

	issued, err := ParseDate(cell(row, cols.issued))
	if err != nil {
		return inv, fmt.Errorf("issue date: %w", err)
	}
	inv.IssueDate = issued

	// Due date falls back to the issue date when the column is absent
	// or the cell is blank.
	inv.DueDate = issued
	if due := cell(row, cols.due); due != "" {
		d, err := ParseDate(due)
		if err != nil {
			return inv, fmt.Errorf("due date: %w", err)
		}
		inv.DueDate = d
	}

	// An unparseable paid date means the invoice counts as unpaid, the
	// same coercion the aging report has always applied.
	if paid := cell(row, cols.paid); paid != "" {
		p, err := ParseDate(paid)
		if err != nil {
			logger.Warn("ignoring unparseable paid date",
				"tab", tab.Title,
				"invoice", inv.Number,
				"value", paid)
		} else {
			inv.PaidDate = &p
		}
	}

	return inv, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
