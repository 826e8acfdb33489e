package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"agent-funds/internal/app/agents"
	"agent-funds/internal/app/gamesession"
	"agent-funds/internal/ledger"
	"agent-funds/internal/store"
)

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	WriteJSON(w, status, map[string]any{"error": code})
}

// WriteServiceError maps service and ledger errors onto the HTTP error
// envelope; the sentinel text doubles as the wire error code.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidRequest),
		errors.Is(err, agents.ErrInvalidRequest),
		errors.Is(err, gamesession.ErrInvalidRequest),
		errors.Is(err, gamesession.ErrInvalidMode):
		WriteHTTPError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrUnknownSubject),
		errors.Is(err, agents.ErrAgentNotFound),
		errors.Is(err, agents.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, err.Error())
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

// ParsePagination reads page and limit query params with the 1/10 defaults
// the original dashboard used.
func ParsePagination(r *http.Request) (int, int) {
	page := 1
	limit := 10
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}
