package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebarrena/consolida/internal/model"
)

func TestPrepareValues(t *testing.T) {
	snapshots := []model.DebtSnapshot{
		{
			Customer:       "Acme",
			AsOfMonth:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Bucket0to3:     decimal.NewFromFloat(100.50),
			Bucket3to6:     decimal.NewFromFloat(1234.56),
			Billed:         decimal.NewFromFloat(500),
			BilledCount:    2,
			BilledInvoices: []string{"F-001", "F-002"},
			CurrentMonth:   true,
		},
		{
			Customer:  "Beta",
			AsOfMonth: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	values := prepareValues(snapshots)

	require.Len(t, values, 3)
	assert.Equal(t, consolidationHeader, values[0])

	row := values[1]
	require.Len(t, row, len(consolidationHeader))
	assert.Equal(t, "Acme", row[0])
	assert.Equal(t, "2024-05-01", row[1])
	assert.InDelta(t, 100.50, row[2], 0.001)
	assert.InDelta(t, 1234.56, row[3], 0.001)
	assert.InDelta(t, 0, row[4], 0.001)
	assert.InDelta(t, 1335.06, row[5], 0.001) // total = sum of buckets
	assert.InDelta(t, 500, row[8], 0.001)
	assert.Equal(t, 2, row[9])
	assert.Equal(t, "F-001, F-002", row[10])
	assert.Equal(t, true, row[11])

	assert.Equal(t, "Beta", values[2][0])
	assert.Equal(t, "", values[2][10])
}

func TestPrepareValues_Empty(t *testing.T) {
	values := prepareValues(nil)
	require.Len(t, values, 1)
	assert.Equal(t, consolidationHeader, values[0])
}
