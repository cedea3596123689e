package server

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"royale-rivals/internal/domain"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSyncCooldown):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	log.Debug().Err(err).Int("status", status).Msg("request rejected")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// retryAfterSeconds rounds up so clients never retry inside the window.
func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}

// decodeBody reads a JSON payload into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Mark(errors.Wrap(err, "invalid JSON payload"), domain.ErrInvalidInput)
	}
	return nil
}

func intParam(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "invalid %s", name), domain.ErrInvalidInput)
	}
	return v, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Mark(errors.Wrapf(err, "invalid %s", name), domain.ErrInvalidInput)
	}
	return v, nil
}
