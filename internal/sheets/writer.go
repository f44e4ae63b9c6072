package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/api/sheets/v4"

	"github.com/ebarrena/consolida/internal/common"
	"github.com/ebarrena/consolida/internal/model"
	"github.com/ebarrena/consolida/internal/service"
)

// consolidationHeader is the fixed schema of the output tab.
var consolidationHeader = []any{
	"Customer",
	"Month",
	"Debt 0-3 Months",
	"Debt 3-6 Months",
	"Debt > 6 Months",
	"Total Outstanding",
	"Crossed 3 Months",
	"Variation vs Previous",
	"Billed in Month",
	"Invoice Count",
	"Invoices",
	"Current Month",
}

// Writer implements the service.SnapshotWriter interface for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a Google Sheets consolidation writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service: srv,
		logger:  logger,
		config:  config,
	}, nil
}

// Write clears the consolidation tab and rewrites it from A1. The tab is
// created when it does not exist yet.
func (w *Writer) Write(ctx context.Context, snapshots []model.DebtSnapshot) error {
	w.logger.Info("starting consolidation export",
		"snapshots", len(snapshots),
		"tab", w.config.OutputTab)

	sheetID, err := w.ensureOutputTab(ctx)
	if err != nil {
		return fmt.Errorf("failed to prepare output tab: %w", err)
	}

	if clearErr := w.clearTab(ctx); clearErr != nil {
		return fmt.Errorf("failed to clear output tab: %w", clearErr)
	}

	values := prepareValues(snapshots)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeValues(ctx, values)
	}, retryOpts)

	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, sheetID, len(values))
		}, retryOpts)
		if err != nil {
			// A formatting failure never fails the run.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("consolidation export completed",
		"tab", w.config.OutputTab,
		"rows_written", len(values))

	return nil
}

// ensureOutputTab returns the sheet ID of the consolidation tab,
// creating the tab when absent.
func (w *Writer) ensureOutputTab(ctx context.Context) (int64, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, wrapAPIError(err, "spreadsheet "+w.config.SpreadsheetID)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == w.config.OutputTab {
			return sheet.Properties.SheetId, nil
		}
	}

	w.logger.Info("creating output tab", "tab", w.config.OutputTab)

	resp, err := w.service.Spreadsheets.BatchUpdate(w.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: w.config.OutputTab,
					},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, wrapAPIError(err, "adding tab "+w.config.OutputTab)
	}

	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// clearTab clears all values from the output tab.
func (w *Writer) clearTab(ctx context.Context) error {
	_, err := w.service.Spreadsheets.Values.
		Clear(w.config.SpreadsheetID, w.config.OutputTab, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError(err, "clearing tab "+w.config.OutputTab)
	}
	return nil
}

// prepareValues lays out the header and one row per snapshot.
func prepareValues(snapshots []model.DebtSnapshot) [][]any {
	values := make([][]any, 0, len(snapshots)+1)
	values = append(values, consolidationHeader)

	for i := range snapshots {
		s := &snapshots[i]
		values = append(values, []any{
			s.Customer,
			s.AsOfMonth.Format("2006-01-02"),
			amountCell(s.Bucket0to3),
			amountCell(s.Bucket3to6),
			amountCell(s.Bucket6Plus),
			amountCell(s.TotalOutstanding()),
			amountCell(s.Crossed3Months),
			amountCell(s.Variation),
			amountCell(s.Billed),
			s.BilledCount,
			strings.Join(s.BilledInvoices, ", "),
			s.CurrentMonth,
		})
	}

	return values
}

func amountCell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// writeValues writes the prepared rows in batches to avoid API limits.
func (w *Writer) writeValues(ctx context.Context, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := i + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		rangeStr := fmt.Sprintf("%s!A%d", w.config.OutputTab, i+1)
		_, err := w.service.Spreadsheets.Values.Update(w.config.SpreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return wrapAPIError(err, fmt.Sprintf("writing batch starting at row %d", i+1))
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting formats the output tab: bold frozen header, currency
// number format on the amount columns, auto-sized columns.
func (w *Writer) applyFormatting(ctx context.Context, sheetID int64, totalRows int) error {
	requests := []*sheets.Request{
		// Bold header row
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(consolidationHeader)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Currency format on the amount columns (C through I)
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 2,
					EndColumnIndex:   9,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: "#,##0.00 €",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		// Auto-resize columns
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(consolidationHeader)),
				},
			},
		},
		// Freeze the header row
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	_, err := w.service.Spreadsheets.BatchUpdate(w.config.SpreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
