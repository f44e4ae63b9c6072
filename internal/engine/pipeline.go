// Package engine orchestrates the consolidation pipeline:
// fetch year tabs, normalize rows, aggregate debt aging, write the
// consolidation tab. One pass, no in-run retry of stages.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebarrena/consolida/internal/aging"
	"github.com/ebarrena/consolida/internal/common"
	"github.com/ebarrena/consolida/internal/model"
	"github.com/ebarrena/consolida/internal/normalize"
	"github.com/ebarrena/consolida/internal/service"
)

// Stats summarizes a completed run.
type Stats struct {
	Duration    time.Duration
	TabsRead    int
	RowsRead    int
	RowsDropped int
	Snapshots   int
}

// Pipeline wires the source reader, the aggregator and the sink writer.
type Pipeline struct {
	reader   service.TabReader
	writer   service.SnapshotWriter
	logger   *slog.Logger
	now      func() time.Time
	progress func(done, total int)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the reference time used for aggregation.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithProgress registers a callback invoked after each tab fetch.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// New creates a pipeline.
func New(reader service.TabReader, writer service.SnapshotWriter, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		reader: reader,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline once. A source or sink failure aborts
// the run; malformed rows are dropped and counted instead.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	started := time.Now()
	stats := &Stats{}

	titles, err := p.reader.ListYearTabs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing year tabs: %w", err)
	}
	p.logger.Info("consolidating year tabs", "tabs", titles)

	var invoices []model.Invoice
	for i, title := range titles {
		tab, err := p.reader.ReadTab(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("reading tab %s: %w", title, err)
		}
		stats.TabsRead++

		if p.progress != nil {
			p.progress(i+1, len(titles))
		}

		if len(tab.Header) == 0 {
			continue
		}
		stats.RowsRead += len(tab.Rows)

		res, err := normalize.Rows(tab, p.logger)
		if err != nil {
			return nil, err
		}
		stats.RowsDropped += res.Dropped
		invoices = append(invoices, res.Invoices...)
	}

	if len(invoices) == 0 {
		return nil, common.ErrNoInvoices
	}

	snapshots := aging.Aggregate(invoices, p.now())
	stats.Snapshots = len(snapshots)
	p.logger.Info("aggregation complete",
		"invoices", len(invoices),
		"snapshots", len(snapshots),
		"rows_dropped", stats.RowsDropped)

	if err := p.writer.Write(ctx, snapshots); err != nil {
		return nil, fmt.Errorf("writing consolidation: %w", err)
	}

	stats.Duration = time.Since(started)
	return stats, nil
}
