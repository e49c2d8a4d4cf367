package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannedError_MatchesForbidden(t *testing.T) {
	err := fmt.Errorf("gate: %w", &BannedError{Reason: "spam"})

	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrRateLimited))

	var banned *BannedError
	if assert.True(t, errors.As(err, &banned)) {
		assert.Equal(t, "spam", banned.Reason)
	}
}
