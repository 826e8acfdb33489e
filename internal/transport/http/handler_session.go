package httptransport

import (
	"encoding/json"
	"net/http"

	"agent-funds/internal/app/gamesession"

	"github.com/go-chi/chi/v5"
)

type SessionHandlers struct {
	svc *gamesession.Service
}

func NewSessionHandlers(svc *gamesession.Service) *SessionHandlers {
	return &SessionHandlers{svc: svc}
}

func (h *SessionHandlers) GetMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode, err := h.svc.GetMode(r.Context(), chi.URLParam(r, "game"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "session mode",
			"data":    map[string]string{"sessionMode": mode},
		})
	}
}

func (h *SessionHandlers) SetMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		mode, err := h.svc.SetMode(r.Context(), chi.URLParam(r, "game"), body.Mode)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "session mode updated",
			"data":    map[string]string{"sessionMode": mode},
		})
	}
}

func (h *SessionHandlers) SessionStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := ParsePagination(r)
		search := r.URL.Query().Get("searchText")
		items, total, err := h.svc.SessionStats(r.Context(), chi.URLParam(r, "game"), search, page, limit)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"sessions":      items,
			"currentPage":   page,
			"totalPages":    totalPages(total, limit),
			"totalSessions": total,
		})
	}
}

func (h *SessionHandlers) DailyStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.svc.DailyStats(r.Context(), chi.URLParam(r, "game"), r.URL.Query().Get("date"))
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, stats)
	}
}
