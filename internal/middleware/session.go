package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type ContextKey string

const LastPrivaKey ContextKey = "lastPrivaID"

const lastPrivaSessionKey = "lastPrivaID"

// LoadLastPriva puts the id of the priva the browser last opened, if any,
// into the request context.
func LoadLastPriva(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := sessionManager.GetString(r.Context(), lastPrivaSessionKey)
			if idStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(idStr)
			if err != nil {
				sessionManager.Remove(r.Context(), lastPrivaSessionKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), LastPrivaKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RememberPriva stores id as the last priva opened in this session.
func RememberPriva(sessionManager *scs.SessionManager, ctx context.Context, id uuid.UUID) {
	sessionManager.Put(ctx, lastPrivaSessionKey, id.String())
}

// ForgetPriva clears the remembered priva, for example after it was deleted.
func ForgetPriva(sessionManager *scs.SessionManager, ctx context.Context) {
	sessionManager.Remove(ctx, lastPrivaSessionKey)
}

func GetLastPrivaFromContext(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(LastPrivaKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}
