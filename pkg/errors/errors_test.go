package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Nil(t, FromError(nil))
}

func TestClonedErrorsMatchSentinel(t *testing.T) {
	cloned := Clone(ErrSeatTaken, "seat 7 taken on 2025-01-06")
	wrapped := fmt.Errorf("create booking: %w", cloned)

	assert.True(t, errors.Is(wrapped, ErrSeatTaken))
	assert.False(t, errors.Is(wrapped, ErrUserAlreadyBooked))
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsConflict(fmt.Errorf("connection refused")))
	assert.Equal(t, ErrSeatTaken.Message, "seat already booked for this date", "sentinel must not be mutated")
}
