package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// UserIDHeader carries the authenticated account id, set by the gateway in front of the service.
const UserIDHeader = "X-User-ID"

const UserIDKey contextKey = "user_id"

// UserIdentity attaches the caller's account id to the request context. A missing or
// malformed header leaves the request anonymous; RequireUser decides whether that is allowed.
func UserIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			zerolog.Ctx(r.Context()).Debug().Str("header", raw).Msg("ignoring malformed user id")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, id)
		l := zerolog.Ctx(ctx).With().Int64("user_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			body, _ := sonic.Marshal(map[string]string{"error": "missing or invalid " + UserIDHeader})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write(body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
