package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studydesk/backend/internal/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", models.ErrValidation), http.StatusBadRequest},
		{models.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("get: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRetryable(t *testing.T) {
	rec := httptest.NewRecorder()
	Retryable(rec, "try again")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.ErrorResponse{Error: "try again", Retryable: true}, body)
}

func TestIntQuery(t *testing.T) {
	q := url.Values{"limit": {"15"}, "bad": {"x"}, "neg": {"-3"}}

	assert.Equal(t, 15, IntQuery(q, "limit", 10))
	assert.Equal(t, 10, IntQuery(q, "bad", 10))
	assert.Equal(t, 10, IntQuery(q, "neg", 10))
	assert.Equal(t, 10, IntQuery(q, "missing", 10))
}

func TestPathID(t *testing.T) {
	id, ok := PathID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, ok := PathID(raw)
		assert.False(t, ok, raw)
	}
}
