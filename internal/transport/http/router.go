package httptransport

import (
	"net/http"

	"agent-funds/internal/app/agents"
	"agent-funds/internal/app/gamesession"
	"agent-funds/internal/config"
	"agent-funds/internal/ledger"
	"agent-funds/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st store.Store, cfg config.ServerConfig) *chi.Mux {
	engine := ledger.New(st, ledger.NotifierFunc(func(keys ...string) {
		log.Debug().Strs("collections", keys).Msg("ledger refresh signal")
	}))
	agentSvc := agents.NewService(st, engine)
	sessionSvc := gamesession.NewService(st)

	agentHandlers := NewAgentHandlers(agentSvc)
	sessionHandlers := NewSessionHandlers(sessionSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(APILogMiddleware())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := st.Ping(req.Context()); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false})
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.AuthToken))

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agentHandlers.List())
			r.Post("/create", agentHandlers.Create())
			r.Put("/edit/{agentID}", agentHandlers.Edit())
			r.Post("/{agentID}/balance", agentHandlers.BalanceTransaction())

			r.Post("/user/create", agentHandlers.CreateUser())
			r.Get("/users", agentHandlers.ListUsers())
			r.Put("/users/{userID}", agentHandlers.EditUser())
			r.Put("/users/{userID}/fund", agentHandlers.UserFund())

			r.Get("/transactions/history", agentHandlers.TransactionHistory())
			r.Get("/user/{userID}/transactions", agentHandlers.UserTransactionHistory())
		})

		r.Route("/admin/{game}", func(r chi.Router) {
			r.Get("/get-session-mode", sessionHandlers.GetMode())
			r.Post("/set-session-mode", sessionHandlers.SetMode())
			r.Get("/session-stats", sessionHandlers.SessionStats())
			r.Get("/status", sessionHandlers.DailyStats())
		})
	})

	return r
}
