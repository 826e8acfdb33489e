package client

import (
	"context"
	"net/http"
	"net/url"

	"agent-funds/internal/sessionmode"
	"agent-funds/internal/store"
)

type sessionModeEnvelope struct {
	Data struct {
		SessionMode string `json:"sessionMode"`
	} `json:"data"`
}

// GetSessionMode implements sessionmode.API.
func (c *Client) GetSessionMode(ctx context.Context, game string) (sessionmode.Mode, error) {
	if game == "" {
		return sessionmode.ModeUnset, &ValidationError{Field: "game", Reason: "required"}
	}
	var out sessionModeEnvelope
	if err := c.do(ctx, http.MethodGet, "/admin/"+game+"/get-session-mode", nil, nil, &out); err != nil {
		return sessionmode.ModeUnset, err
	}
	return sessionmode.Mode(out.Data.SessionMode), nil
}

// SetSessionMode implements sessionmode.API.
func (c *Client) SetSessionMode(ctx context.Context, game string, mode sessionmode.Mode) (sessionmode.Mode, error) {
	if game == "" {
		return sessionmode.ModeUnset, &ValidationError{Field: "game", Reason: "required"}
	}
	body := map[string]string{"mode": string(mode)}
	var out sessionModeEnvelope
	if err := c.do(ctx, http.MethodPost, "/admin/"+game+"/set-session-mode", nil, body, &out); err != nil {
		return sessionmode.ModeUnset, err
	}
	return sessionmode.Mode(out.Data.SessionMode), nil
}

func (c *Client) GameSessionStats(ctx context.Context, game string, page, limit int, searchText string) (SessionStatsPage, error) {
	if game == "" {
		return SessionStatsPage{}, &ValidationError{Field: "game", Reason: "required"}
	}
	q := pageQuery(page, limit)
	if searchText != "" {
		q.Set("searchText", searchText)
	}
	var out SessionStatsPage
	err := c.do(ctx, http.MethodGet, "/admin/"+game+"/session-stats", q, nil, &out)
	return out, err
}

// GameDailyStats returns bet/winning totals for one UTC day. An empty date
// means today.
func (c *Client) GameDailyStats(ctx context.Context, game, date string) (store.DailyStats, error) {
	if game == "" {
		return store.DailyStats{}, &ValidationError{Field: "game", Reason: "required"}
	}
	var q url.Values
	if date != "" {
		q = url.Values{"date": []string{date}}
	}
	var out store.DailyStats
	err := c.do(ctx, http.MethodGet, "/admin/"+game+"/status", q, nil, &out)
	return out, err
}
