package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agent-funds/internal/config"
	"agent-funds/internal/store"

	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) (*chi.Mux, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	return NewRouter(st, config.ServerConfig{}), st
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, payload
}

func createAgentHTTP(t *testing.T, r http.Handler, balance int64) string {
	t.Helper()
	rec, payload := doJSON(t, r, http.MethodPost, "/agents/create", map[string]any{
		"name":            "Agent",
		"mobile":          "9000000001",
		"coins_balance":   balance,
		"coin_percentage": 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create agent status = %d body %s", rec.Code, rec.Body)
	}
	data := payload["data"].(map[string]any)
	return data["agent_id"].(string)
}

func createUserHTTP(t *testing.T, r http.Handler, agentID string, balance int64) string {
	t.Helper()
	rec, payload := doJSON(t, r, http.MethodPost, "/agents/user/create", map[string]any{
		"agent_id":         agentID,
		"name":             "User",
		"phone":            "9000000002",
		"availableBalance": balance,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d body %s", rec.Code, rec.Body)
	}
	data := payload["data"].(map[string]any)
	return data["_id"].(string)
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	rec, payload := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["ok"] != true {
		t.Fatalf("payload = %v", payload)
	}
}

func TestAgentLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 1000)

	rec, payload := doJSON(t, r, http.MethodGet, "/agents/?page=1&limit=10&search=agent", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	data := payload["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("listed %d agents, want 1", len(data))
	}
	pagination := payload["pagination"].(map[string]any)
	if pagination["total"].(float64) != 1 || pagination["totalPages"].(float64) != 1 {
		t.Fatalf("pagination = %v", pagination)
	}

	rec, payload = doJSON(t, r, http.MethodPut, "/agents/edit/"+agentID, map[string]any{
		"name":   "Renamed",
		"status": "Inactive",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d body %s", rec.Code, rec.Body)
	}
	edited := payload["data"].(map[string]any)
	if edited["name"] != "Renamed" || edited["status"] != "Inactive" {
		t.Fatalf("edit result = %v", edited)
	}

	rec, payload = doJSON(t, r, http.MethodPut, "/agents/edit/missing", map[string]any{"name": "X"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing agent edit status = %d", rec.Code)
	}
	if payload["error"] != "agent_not_found" {
		t.Fatalf("error code = %v", payload["error"])
	}
}

func TestAgentBalanceTransaction(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 100)

	rec, payload := doJSON(t, r, http.MethodPost, "/agents/"+agentID+"/balance", map[string]any{
		"type":   "add",
		"amount": 50,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body)
	}
	agent := payload["agent"].(map[string]any)
	if agent["coins_balance"].(float64) != 150 {
		t.Fatalf("balance = %v, want 150", agent["coins_balance"])
	}
	txn := payload["transaction"].(map[string]any)
	if txn["createdBy"] != "admin" {
		t.Fatalf("createdBy = %v", txn["createdBy"])
	}
}

func TestUserFundFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 1000)
	userID := createUserHTTP(t, r, agentID, 0)

	rec, payload := doJSON(t, r, http.MethodPut, "/agents/users/"+userID+"/fund", map[string]any{
		"type":   "add",
		"amount": 200,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("fund status = %d body %s", rec.Code, rec.Body)
	}
	user := payload["user"].(map[string]any)
	agent := payload["agent"].(map[string]any)
	if user["availableBalance"].(float64) != 200 {
		t.Fatalf("user balance = %v, want 200", user["availableBalance"])
	}
	if agent["coins_balance"].(float64) != 800 {
		t.Fatalf("agent balance = %v, want 800", agent["coins_balance"])
	}
	txn := payload["transaction"].(map[string]any)
	if txn["userBalanceBefore"].(float64) != 0 || txn["userBalanceAfter"].(float64) != 200 {
		t.Fatalf("user snapshots = %v/%v", txn["userBalanceBefore"], txn["userBalanceAfter"])
	}
	if txn["agentBalanceBefore"].(float64) != 1000 || txn["agentBalanceAfter"].(float64) != 800 {
		t.Fatalf("agent snapshots = %v/%v", txn["agentBalanceBefore"], txn["agentBalanceAfter"])
	}

	rec, payload = doJSON(t, r, http.MethodGet, "/agents/user/"+userID+"/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	if payload["total"].(float64) != 1 || payload["totalPages"].(float64) != 1 {
		t.Fatalf("history = %v", payload)
	}
}

func TestFundErrorEnvelopes(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 100)
	userID := createUserHTTP(t, r, agentID, 0)

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "insufficient agent coins",
			path:       "/agents/users/" + userID + "/fund",
			body:       map[string]any{"type": "add", "amount": 500},
			wantStatus: http.StatusBadRequest,
			wantCode:   "insufficient_balance",
		},
		{
			name:       "zero amount",
			path:       "/agents/users/" + userID + "/fund",
			body:       map[string]any{"type": "add", "amount": 0},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_amount",
		},
		{
			name:       "bad type",
			path:       "/agents/users/" + userID + "/fund",
			body:       map[string]any{"type": "transfer", "amount": 10},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "unknown user",
			path:       "/agents/users/missing/fund",
			body:       map[string]any{"type": "add", "amount": 10},
			wantStatus: http.StatusNotFound,
			wantCode:   "unknown_subject",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, payload := doJSON(t, r, http.MethodPut, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if payload["error"] != tt.wantCode {
				t.Fatalf("code = %v, want %s", payload["error"], tt.wantCode)
			}
		})
	}
}

func TestTransactionHistoryEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 1000)
	for i := 0; i < 3; i++ {
		rec, _ := doJSON(t, r, http.MethodPost, "/agents/"+agentID+"/balance", map[string]any{
			"type": "add", "amount": 10,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("fund %d status = %d", i, rec.Code)
		}
	}

	rec, payload := doJSON(t, r, http.MethodGet, "/agents/transactions/history?page=1&limit=2&type=add", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	txns := payload["transactions"].([]any)
	if len(txns) != 2 {
		t.Fatalf("page size = %d, want 2", len(txns))
	}
	if payload["total"].(float64) != 3 || payload["pages"].(float64) != 2 {
		t.Fatalf("envelope = %v", payload)
	}
}

func TestListUsersEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)
	agentID := createAgentHTTP(t, r, 1000)
	for i := 0; i < 12; i++ {
		rec, _ := doJSON(t, r, http.MethodPost, "/agents/user/create", map[string]any{
			"agent_id": agentID,
			"name":     fmt.Sprintf("user%02d", i),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create user %d status = %d", i, rec.Code)
		}
	}

	rec, payload := doJSON(t, r, http.MethodGet, "/agents/users?page=2&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	users := payload["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("page 2 size = %d, want 2", len(users))
	}
	pagination := payload["pagination"].(map[string]any)
	if pagination["total"].(float64) != 12 || pagination["totalPages"].(float64) != 2 {
		t.Fatalf("pagination = %v", pagination)
	}
}

func TestSessionModeEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec, payload := doJSON(t, r, http.MethodGet, "/admin/dragon-tiger/get-session-mode", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	data := payload["data"].(map[string]any)
	if data["sessionMode"] != "automatic" {
		t.Fatalf("default mode = %v", data["sessionMode"])
	}

	rec, payload = doJSON(t, r, http.MethodPost, "/admin/dragon-tiger/set-session-mode", map[string]any{"mode": "manual"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d body %s", rec.Code, rec.Body)
	}
	data = payload["data"].(map[string]any)
	if data["sessionMode"] != "manual" {
		t.Fatalf("applied mode = %v", data["sessionMode"])
	}

	rec, payload = doJSON(t, r, http.MethodPost, "/admin/dragon-tiger/set-session-mode", map[string]any{"mode": "paused"})
	if rec.Code != http.StatusBadRequest || payload["error"] != "invalid_mode" {
		t.Fatalf("bad mode response = %d %v", rec.Code, payload)
	}
}

func TestSessionStatsAndDailyStats(t *testing.T) {
	r, st := newTestRouter(t)
	seedSessions(t, st)

	rec, payload := doJSON(t, r, http.MethodGet, "/admin/dragon-tiger/session-stats?page=1&limit=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	sessions := payload["sessions"].([]any)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if payload["totalSessions"].(float64) != 2 || payload["currentPage"].(float64) != 1 {
		t.Fatalf("envelope = %v", payload)
	}

	rec, payload = doJSON(t, r, http.MethodGet, "/admin/dragon-tiger/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily status = %d", rec.Code)
	}
	if payload["totalBetAmount"].(float64) != 30 || payload["totalWinningAmount"].(float64) != 12 {
		t.Fatalf("daily stats = %v", payload)
	}

	rec, payload = doJSON(t, r, http.MethodGet, "/admin/dragon-tiger/status?date=bogus", nil)
	if rec.Code != http.StatusBadRequest || payload["error"] != "invalid_request" {
		t.Fatalf("bad date response = %d %v", rec.Code, payload)
	}
}

func seedSessions(t *testing.T, st *store.MemStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, s := range []store.GameSession{
		{Game: "dragon-tiger", Mode: "automatic", TotalBetAmount: 10, TotalWinningAmount: 4, StartedAt: now},
		{Game: "dragon-tiger", Mode: "manual", TotalBetAmount: 20, TotalWinningAmount: 8, StartedAt: now},
		{Game: "teen-patti", Mode: "automatic", TotalBetAmount: 99, TotalWinningAmount: 99, StartedAt: now},
	} {
		sess := s
		if _, err := st.InsertGameSession(ctx, &sess); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	st := store.NewMemStore()
	r := NewRouter(st, config.ServerConfig{AuthToken: "secret"})

	// Health stays open.
	rec, _ := doJSON(t, r, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/agents/", nil)
	rec2 := httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/agents/", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec2 = httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want 401", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/agents/", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec2 = httptest.NewRecorder()
	r.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", rec2.Code)
	}
}
