// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/ebarrena/consolida/internal/model"
)

// Tab holds the raw contents of a single source worksheet: a header row
// followed by string cells exactly as the spreadsheet returned them.
type Tab struct {
	Title  string
	Header []string
	Rows   [][]string
	Year   int
}

// TabReader fetches raw billing tabs from the source spreadsheet.
type TabReader interface {
	// ListYearTabs returns the titles of all four-digit-year tabs,
	// sorted ascending.
	ListYearTabs(ctx context.Context) ([]string, error)
	// ReadTab fetches a single tab by title.
	ReadTab(ctx context.Context, title string) (*Tab, error)
}

// SnapshotWriter persists a full set of aggregated debt snapshots,
// replacing whatever the destination held before.
type SnapshotWriter interface {
	Write(ctx context.Context, snapshots []model.DebtSnapshot) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
