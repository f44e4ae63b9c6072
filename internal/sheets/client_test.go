package sheets

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/ebarrena/consolida/internal/common"
)

func TestWrapAPIError(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		name     string
	}{
		{
			name:     "unauthorized maps to auth error",
			err:      &googleapi.Error{Code: 401},
			sentinel: common.ErrAuth,
		},
		{
			name:     "forbidden maps to auth error",
			err:      &googleapi.Error{Code: 403},
			sentinel: common.ErrAuth,
		},
		{
			name:     "not found maps to tab not found",
			err:      &googleapi.Error{Code: 404},
			sentinel: common.ErrTabNotFound,
		},
		{
			name:     "too many requests maps to rate limit",
			err:      &googleapi.Error{Code: 429},
			sentinel: common.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapAPIError(tt.err, "tab 2024")
			assert.True(t, errors.Is(wrapped, tt.sentinel), "got %v", wrapped)
			assert.Contains(t, wrapped.Error(), "tab 2024")
		})
	}
}

func TestWrapAPIError_Passthrough(t *testing.T) {
	// Wrapped API errors are still recognizable.
	apiErr := fmt.Errorf("call failed: %w", &googleapi.Error{Code: 404})
	assert.True(t, errors.Is(wrapAPIError(apiErr, "tab 2023"), common.ErrTabNotFound))

	// Non-API errors keep their identity.
	plain := errors.New("connection reset")
	wrapped := wrapAPIError(plain, "spreadsheet x")
	assert.True(t, errors.Is(wrapped, plain))
	assert.False(t, errors.Is(wrapped, common.ErrAuth))
}

func TestToStrings(t *testing.T) {
	cells := []any{"Acme", 1234.56, 42, true}
	assert.Equal(t, []string{"Acme", "1234.56", "42", "true"}, toStrings(cells))
}
