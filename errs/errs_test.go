package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound, "book not found")))
	assert.Equal(t, KindBlocked, KindOf(fmt.Errorf("wrapped: %w", New(KindBlocked, "overdue"))))
	assert.Equal(t, KindUnavailable, KindOf(errors.New("raw driver error")))
}

func TestField(t *testing.T) {
	err := Field("email", ConstraintBadFormat)
	assert.Equal(t, KindInvalidInput, err.Kind)
	assert.Equal(t, "email", err.Field)
	assert.Equal(t, "email: bad_format", err.Error())
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause)
	assert.Equal(t, KindUnavailable, err.Kind)
	assert.ErrorIs(t, err, cause)
}
