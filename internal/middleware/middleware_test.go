package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestUserIdentity(t *testing.T) {
	tests := []struct {
		name   string
		header string
		wantID int64
		wantOK bool
	}{
		{"absent", "", 0, false},
		{"valid", "42", 42, true},
		{"not a number", "alice", 0, false},
		{"zero", "0", 0, false},
		{"negative", "-3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				id int64
				ok bool
			)
			h := UserIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok = UserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestRequireUser(t *testing.T) {
	reached := false
	h := UserIdentity(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), UserIDHeader)
	assert.False(t, reached)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "7")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
