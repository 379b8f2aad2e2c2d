package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastPrivaRoundTrip(t *testing.T) {
	sessionManager := scs.New()
	id := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("/remember", func(w http.ResponseWriter, r *http.Request) {
		RememberPriva(sessionManager, r.Context(), id)
	})
	mux.HandleFunc("/forget", func(w http.ResponseWriter, r *http.Request) {
		ForgetPriva(sessionManager, r.Context())
	})
	mux.HandleFunc("/last", func(w http.ResponseWriter, r *http.Request) {
		got, ok := GetLastPrivaFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(got.String()))
	})
	handler := sessionManager.LoadAndSave(LoadLastPriva(sessionManager)(mux))

	// No session yet.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/last", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/remember", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec = send("/last")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())

	send("/forget")
	rec = send("/last")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetLastPrivaFromEmptyContext(t *testing.T) {
	_, ok := GetLastPrivaFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
