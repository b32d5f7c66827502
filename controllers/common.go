package controllers

import (
	"errors"
	"net/http"

	"library-api/app"
	"library-api/errs"

	"github.com/gin-gonic/gin"
)

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindInvalidInput:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict, errs.KindInvalidState, errs.KindLimitExceeded, errs.KindBlocked:
		return http.StatusConflict
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes the error with its kind so clients can branch without
// parsing messages.
func fail(c *gin.Context, err error) {
	var e *errs.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	body := app.H{"error": e.Msg, "kind": string(e.Kind)}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.JSON(statusFor(e.Kind), body)
}

// optPtr collapses a cleared optional ("") to nil so it stores as NULL.
func optPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
