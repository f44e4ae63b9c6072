package normalize

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts is the pinned set of accepted date formats. Slash-separated
// dates are month-first, matching how the source sheets are entered.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// ParseDate parses a date cell against the pinned layout set.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
