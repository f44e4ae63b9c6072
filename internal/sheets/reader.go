package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"google.golang.org/api/sheets/v4"

	"github.com/ebarrena/consolida/internal/common"
	"github.com/ebarrena/consolida/internal/service"
)

// yearTab matches the titles of source tabs, one per billing year.
var yearTab = regexp.MustCompile(`^\d{4}$`)

// Reader implements the service.TabReader interface for Google Sheets.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a Google Sheets source reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Reader{
		service: srv,
		logger:  logger,
		config:  config,
	}, nil
}

// ListYearTabs returns all four-digit-year tab titles, sorted ascending.
func (r *Reader) ListYearTabs(ctx context.Context) ([]string, error) {
	spreadsheet, err := r.service.Spreadsheets.Get(r.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "spreadsheet "+r.config.SpreadsheetID)
	}

	var titles []string
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && yearTab.MatchString(sheet.Properties.Title) {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	sort.Strings(titles)

	if len(titles) == 0 {
		return nil, common.ErrNoYearTabs
	}

	r.logger.Debug("discovered year tabs", "titles", titles)
	return titles, nil
}

// ReadTab fetches a single year tab as a header row plus data rows.
func (r *Reader) ReadTab(ctx context.Context, title string) (*service.Tab, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.config.SpreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(err, "tab "+title)
	}

	year, _ := strconv.Atoi(title)
	tab := &service.Tab{Title: title, Year: year}

	if len(resp.Values) == 0 {
		r.logger.Warn("year tab is empty", "tab", title)
		return tab, nil
	}

	tab.Header = toStrings(resp.Values[0])
	tab.Rows = make([][]string, 0, len(resp.Values)-1)
	for _, cells := range resp.Values[1:] {
		tab.Rows = append(tab.Rows, toStrings(cells))
	}

	r.logger.Debug("fetched tab", "tab", title, "rows", len(tab.Rows))
	return tab, nil
}

func toStrings(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}
