package httptransport

import (
	"encoding/json"
	"net/http"

	"agent-funds/internal/app/agents"
	"agent-funds/internal/store"

	"github.com/go-chi/chi/v5"
)

type AgentHandlers struct {
	svc *agents.Service
}

func NewAgentHandlers(svc *agents.Service) *AgentHandlers {
	return &AgentHandlers{svc: svc}
}

func (h *AgentHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := ParsePagination(r)
		search := r.URL.Query().Get("search")
		items, total, err := h.svc.ListAgents(r.Context(), page, limit, search)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"data": items,
			"pagination": map[string]any{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages(total, limit),
			},
		})
	}
}

func (h *AgentHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name           string `json:"name"`
			Mobile         string `json:"mobile"`
			Email          string `json:"email"`
			CoinsBalance   int64  `json:"coins_balance"`
			CoinPercentage int    `json:"coin_percentage"`
			CoinRefundable bool   `json:"coin_refundable"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		agent, err := h.svc.CreateAgent(r.Context(), agents.CreateAgentInput{
			Name:           body.Name,
			Mobile:         body.Mobile,
			Email:          body.Email,
			CoinsBalance:   body.CoinsBalance,
			CoinPercentage: body.CoinPercentage,
			CoinRefundable: body.CoinRefundable,
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]any{
			"status":  "success",
			"message": "agent created",
			"data":    agent,
		})
	}
}

func (h *AgentHandlers) Edit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name           *string            `json:"name"`
			Mobile         *string            `json:"mobile"`
			Email          *string            `json:"email"`
			CoinPercentage *int               `json:"coin_percentage"`
			CoinRefundable *bool              `json:"coin_refundable"`
			Status         *store.AgentStatus `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		agent, err := h.svc.EditAgent(r.Context(), chi.URLParam(r, "agentID"), agents.EditAgentInput{
			Name:           body.Name,
			Mobile:         body.Mobile,
			Email:          body.Email,
			CoinPercentage: body.CoinPercentage,
			CoinRefundable: body.CoinRefundable,
			Status:         body.Status,
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "agent updated",
			"data":    agent,
		})
	}
}

func (h *AgentHandlers) BalanceTransaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Type   store.TxnType `json:"type"`
			Amount int64         `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		outcome, err := h.svc.AgentFund(r.Context(), chi.URLParam(r, "agentID"), agents.FundInput{
			Type:      body.Type,
			Amount:    body.Amount,
			CreatedBy: "admin",
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"message":     "transaction applied",
			"agent":       outcome.Agent,
			"transaction": outcome.Transaction,
		})
	}
}

func (h *AgentHandlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AgentID          string `json:"agent_id"`
			Name             string `json:"name"`
			Phone            string `json:"phone"`
			AvailableBalance int64  `json:"availableBalance"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, err := h.svc.CreateUser(r.Context(), agents.CreateUserInput{
			AgentID:          body.AgentID,
			Name:             body.Name,
			Phone:            body.Phone,
			AvailableBalance: body.AvailableBalance,
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusCreated, map[string]any{
			"status":  "success",
			"message": "user created",
			"data":    user,
		})
	}
}

func (h *AgentHandlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := ParsePagination(r)
		search := r.URL.Query().Get("search")
		items, total, err := h.svc.ListUsers(r.Context(), page, limit, search)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"users": items,
			"pagination": map[string]any{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages(total, limit),
			},
		})
	}
}

func (h *AgentHandlers) EditUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name   *string `json:"name"`
			Phone  *string `json:"phone"`
			Status *bool   `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		user, err := h.svc.EditUser(r.Context(), chi.URLParam(r, "userID"), agents.EditUserInput{
			Name:   body.Name,
			Phone:  body.Phone,
			Status: body.Status,
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "success",
			"message": "user updated",
			"data":    user,
		})
	}
}

func (h *AgentHandlers) UserFund() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount int64         `json:"amount"`
			Type   store.TxnType `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		outcome, err := h.svc.UserFund(r.Context(), chi.URLParam(r, "userID"), agents.FundInput{
			Type:      body.Type,
			Amount:    body.Amount,
			CreatedBy: "agent",
		})
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"message":     "fund updated",
			"agent":       outcome.Agent,
			"user":        outcome.User,
			"transaction": outcome.Transaction,
		})
	}
}

func (h *AgentHandlers) TransactionHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := ParsePagination(r)
		f := store.TransactionFilter{
			Type:     store.TxnType(r.URL.Query().Get("type")),
			UserID:   r.URL.Query().Get("userId"),
			UserName: r.URL.Query().Get("userName"),
		}
		items, total, err := h.svc.TransactionHistory(r.Context(), f, page, limit)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"transactions": items,
			"page":         page,
			"total":        total,
			"pages":        totalPages(total, limit),
		})
	}
}

func (h *AgentHandlers) UserTransactionHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := ParsePagination(r)
		items, total, err := h.svc.UserTransactionHistory(r.Context(), chi.URLParam(r, "userID"), page, limit)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"transactions": items,
			"page":         page,
			"total":        total,
			"totalPages":   totalPages(total, limit),
		})
	}
}
