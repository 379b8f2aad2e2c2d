package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/privas/internal/priva"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

// ErrorBody is the JSON body of every failed API call.
type ErrorBody struct {
	Code    int    `json:"code,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// APIError logs a rejected API call and answers with an ErrorBody.
func APIError(w http.ResponseWriter, status int, kind, msg string, err error) {
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "error", err)
		msg = "Internal Server Error"
	} else if err != nil {
		slog.Warn("request rejected", "status", status, "message", msg, "error", err)
	} else {
		slog.Warn("request rejected", "status", status, "message", msg)
	}
	WriteJSON(w, status, ErrorBody{Kind: kind, Message: msg})
}

// PrivaError answers with the status matching a priva failure. Errors that
// are not priva failures become a 500.
func PrivaError(w http.ResponseWriter, err error) {
	var perr *priva.Error
	if !errors.As(err, &perr) {
		APIError(w, http.StatusInternalServerError, "Internal", "priva action failed", err)
		return
	}
	slog.Warn("priva action rejected", "kind", perr.Code.String(), "message", perr.Message)
	WriteJSON(w, PrivaStatus(perr.Code), ErrorBody{
		Code:    int(perr.Code),
		Kind:    perr.Code.String(),
		Message: perr.Message,
	})
}

// PrivaStatus maps a failure kind to an HTTP status: 409 when the call
// conflicts with the state of the priva, 400 when its input is invalid.
func PrivaStatus(code priva.Code) int {
	switch code {
	case priva.CodeAlreadyStarted,
		priva.CodeBattleInProgress,
		priva.CodeNotRunning,
		priva.CodeNoActiveBattle,
		priva.CodeInsufficientPlayers,
		priva.CodeRosterFull,
		priva.CodeNothingToUndo:
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
