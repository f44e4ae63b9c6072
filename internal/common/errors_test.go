package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	base := errors.New("spreadsheet ID is required")
	err := NewUserError("configuration error", base)

	assert.Equal(t, "configuration error: spreadsheet ID is required", err.Error())
	assert.True(t, errors.Is(err, base))

	var userErr *UserError
	assert.True(t, errors.As(err, &userErr))
	assert.Equal(t, "configuration error", userErr.UserMessage)

	bare := &UserError{UserMessage: "nothing to consolidate"}
	assert.Equal(t, "nothing to consolidate", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestConfigSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("%w: batch size must be positive", ErrInvalidConfig)
	wrapped := NewUserError("configuration error", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidConfig))
	assert.False(t, errors.Is(wrapped, ErrMissingConfig))
}
