package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LionartBR/testa-de-ferro/internal/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"invalid input", domain.InvalidInputf("limit 500 outside [1,100]"), http.StatusUnprocessableEntity, `{"detail":"invalid input"}`},
		{"not found", domain.ErrNotFound, http.StatusNotFound, `{"detail":"not found"}`},
		{"unimplemented", domain.ErrUnimplemented, http.StatusNotImplemented, `{"detail":"not implemented"}`},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, `{"detail":"rate limit exceeded"}`},
		{"bare deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, `{"detail":"request timed out"}`},
		{"opaque store failure", domain.StoreErrorf("stats: %w", errors.New("io error")), http.StatusInternalServerError, `{"detail":"internal error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

// A query that hits the request deadline comes back from the adapter as a
// store error wrapping context.DeadlineExceeded; it must map to 504, not
// 500.
func TestWriteErrorTimedOutStoreCall(t *testing.T) {
	err := domain.StoreErrorf("supplier 11222333000181: %w", context.DeadlineExceeded)

	rec := httptest.NewRecorder()
	writeError(rec, err)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.JSONEq(t, `{"detail":"request timed out"}`, rec.Body.String())
	assert.True(t, errors.Is(err, domain.ErrStore), "store class is preserved alongside the cause")
}
