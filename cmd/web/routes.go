package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/privas/internal/httputil"
	"github.com/AdamBeresnev/privas/internal/live"
	"github.com/AdamBeresnev/privas/internal/middleware"
	"github.com/AdamBeresnev/privas/internal/priva"
	"github.com/AdamBeresnev/privas/internal/rules"
	"github.com/AdamBeresnev/privas/internal/service"
	"github.com/AdamBeresnev/privas/views"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type application struct {
	privas         *service.PrivaService
	hub            *live.Hub
	sessionManager *scs.SessionManager
	metrics        http.Handler
}

type createPrivaRequest struct {
	Type string `json:"type"`
	Args []int  `json:"args"`
}

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	if app.metrics != nil {
		r.Handle("/metrics", app.metrics)
	}

	r.Route("/api/privas", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req createPrivaRequest
			if err := httputil.ReadJSON(w, r, &req); err != nil {
				httputil.APIError(w, http.StatusBadRequest, "InvalidRequest", err.Error(), nil)
				return
			}
			id, err := app.privas.Create(r.Context(), priva.Kind(req.Type), req.Args)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
		})

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := app.privas.List(r.Context())
			if err != nil {
				httputil.APIError(w, http.StatusInternalServerError, "Internal", "failed to list privas", err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, rows)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := privaID(w, r)
			if !ok {
				return
			}
			deleted, err := app.privas.Delete(r.Context(), id)
			if err != nil {
				httputil.APIError(w, http.StatusInternalServerError, "Internal", "failed to delete priva", err)
				return
			}
			if !deleted {
				writeServiceError(w, service.ErrPrivaNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/{id}/actions/{method}", func(w http.ResponseWriter, r *http.Request) {
			id, ok := privaID(w, r)
			if !ok {
				return
			}
			params, err := httputil.ReadRawJSON(w, r)
			if err != nil {
				httputil.APIError(w, http.StatusBadRequest, "InvalidRequest", err.Error(), nil)
				return
			}
			result, err := app.privas.Run(r.Context(), id, chi.URLParam(r, "method"), params)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, result)
		})

		r.Get("/{id}/report", func(w http.ResponseWriter, r *http.Request) {
			id, ok := privaID(w, r)
			if !ok {
				return
			}
			report, err := app.privas.Report(r.Context(), id, requestLocale(r))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, report)
		})

		r.Get("/{id}/rules", func(w http.ResponseWriter, r *http.Request) {
			id, ok := privaID(w, r)
			if !ok {
				return
			}
			text, err := app.privas.Rules(r.Context(), id, requestLocale(r))
			if err != nil {
				writeServiceError(w, err)
				return
			}
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"rules": text})
		})
	})

	r.Get("/ws/privas/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := privaID(w, r)
		if !ok {
			return
		}
		if _, err := app.privas.Report(r.Context(), id, rules.DefaultLocale); err != nil {
			writeServiceError(w, err)
			return
		}
		if err := app.hub.Serve(w, r, id.String()); err != nil {
			// The upgrader has already answered the client.
			slog.Warn("websocket upgrade failed", "priva", id, "error", err)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(middleware.LoadLastPriva(app.sessionManager))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			if id, ok := middleware.GetLastPrivaFromContext(r.Context()); ok {
				if _, err := app.privas.Report(r.Context(), id, rules.DefaultLocale); err == nil {
					http.Redirect(w, r, "/privas/"+id.String(), http.StatusFound)
					return
				}
				middleware.ForgetPriva(app.sessionManager, r.Context())
			}

			rows, err := app.privas.List(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list privas", err)
				return
			}
			if err := views.Render(w, r, views.IndexPage(rows, priva.Kinds())); err != nil {
				httputil.InternalServerError(w, "Failed to render index", err)
			}
		})

		r.Get("/privas/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.NotFound(w, "Priva not found", err)
				return
			}
			locale := requestLocale(r)
			report, err := app.privas.Report(r.Context(), id, locale)
			if errors.Is(err, service.ErrPrivaNotFound) {
				httputil.NotFound(w, "Priva not found", nil)
				return
			}
			if err != nil {
				httputil.InternalServerError(w, "Failed to load priva", err)
				return
			}
			text, err := app.privas.Rules(r.Context(), id, locale)
			if err != nil {
				httputil.InternalServerError(w, "Failed to load rules", err)
				return
			}

			middleware.RememberPriva(app.sessionManager, r.Context(), id)
			page := views.ReportPage(id, views.PrepareReportData(report), text)
			if err := views.Render(w, r, page); err != nil {
				httputil.InternalServerError(w, "Failed to render priva", err)
			}
		})
	})

	return r
}

func privaID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.APIError(w, http.StatusNotFound, "NotFound", "priva not found", err)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPrivaNotFound):
		httputil.APIError(w, http.StatusNotFound, "NotFound", "priva not found", nil)
	case errors.Is(err, service.ErrUnknownAction):
		httputil.APIError(w, http.StatusNotFound, "UnknownAction", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidParams):
		httputil.APIError(w, http.StatusBadRequest, "InvalidParams", err.Error(), nil)
	default:
		httputil.PrivaError(w, err)
	}
}

// requestLocale prefers the lang query parameter, then the first language
// the browser accepts.
func requestLocale(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return rules.DefaultLocale
	}
	return tags[0].String()
}
