package controllers

import (
	"net/http"
	"testing"

	"library-api/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[errs.Kind]int{
		errs.KindInvalidInput:  http.StatusBadRequest,
		errs.KindNotFound:      http.StatusNotFound,
		errs.KindConflict:      http.StatusConflict,
		errs.KindInvalidState:  http.StatusConflict,
		errs.KindLimitExceeded: http.StatusConflict,
		errs.KindBlocked:       http.StatusConflict,
		errs.KindUnavailable:   http.StatusServiceUnavailable,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), "kind %s", kind)
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(errs.Kind("bogus")))
}

func TestOptPtr(t *testing.T) {
	assert.Nil(t, optPtr(nil))
	empty := ""
	assert.Nil(t, optPtr(&empty))
	v := "x"
	assert.Equal(t, &v, optPtr(&v))
}
