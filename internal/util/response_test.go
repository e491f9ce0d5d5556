package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: community 7", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not the owner", ErrForbidden), http.StatusForbidden},
		{ErrAlreadyEnrolled, http.StatusConflict},
		{ErrLessonLocked, http.StatusForbidden},
		{fmt.Errorf("%w: bad rating", ErrValidation), http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)

		FromError(c, tc.err)
		assert.Equal(t, tc.want, rec.Code, "error: %v", tc.err)
	}
}

// Unrecognized errors must not leak internals to the client.
func TestFromErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	FromError(c, errors.New("dsn user:password@tcp(db:3306)"))
	assert.NotContains(t, rec.Body.String(), "password")
}
