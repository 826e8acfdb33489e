package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on postgres. Fund commits re-verify the balance
// snapshots under row locks, mirroring the in-process serialization.
type PGStore struct {
	Pool *pgxpool.Pool
}

func NewPGStore(dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &PGStore{Pool: pool}, nil
}

func (s *PGStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Pool.Ping(ctx)
}

func (s *PGStore) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *PGStore) CreateAgent(ctx context.Context, a *Agent) (string, error) {
	if a.ID == "" {
		a.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO agents (id, name, mobile, email, coins_balance, coin_percentage, coin_refundable, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Name, a.Mobile, a.Email, a.CoinsBalance, a.CoinPercentage, a.CoinRefundable, string(a.Status))
	return a.ID, err
}

func (s *PGStore) GetAgent(ctx context.Context, id string) (*Agent, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT a.id, a.name, a.mobile, a.email, a.coins_balance, a.coin_percentage, a.coin_refundable, a.status,
		       (SELECT count(*) FROM agent_users u WHERE u.agent_id = a.id), a.created_at, a.updated_at
		FROM agents a WHERE a.id = $1`, id)
	return scanAgent(row)
}

func scanAgent(row pgx.Row) (*Agent, error) {
	var a Agent
	var status string
	if err := row.Scan(&a.ID, &a.Name, &a.Mobile, &a.Email, &a.CoinsBalance, &a.CoinPercentage,
		&a.CoinRefundable, &status, &a.TotalUsers, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Status = AgentStatus(status)
	return &a, nil
}

func (s *PGStore) UpdateAgent(ctx context.Context, a *Agent) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE agents SET name=$2, mobile=$3, email=$4, coin_percentage=$5, coin_refundable=$6, status=$7, updated_at=now()
		WHERE id=$1`,
		a.ID, a.Name, a.Mobile, a.Email, a.CoinPercentage, a.CoinRefundable, string(a.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ListAgents(ctx context.Context, q ListQuery) ([]Agent, int, error) {
	pattern := "%" + q.Search + "%"
	var total int
	err := s.Pool.QueryRow(ctx, `
		SELECT count(*) FROM agents
		WHERE $1 = '' OR name ILIKE $2 OR mobile ILIKE $2 OR email ILIKE $2`,
		q.Search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := limitOffset(q.Page, q.Limit)
	rows, err := s.Pool.Query(ctx, `
		SELECT a.id, a.name, a.mobile, a.email, a.coins_balance, a.coin_percentage, a.coin_refundable, a.status,
		       (SELECT count(*) FROM agent_users u WHERE u.agent_id = a.id), a.created_at, a.updated_at
		FROM agents a
		WHERE $1 = '' OR a.name ILIKE $2 OR a.mobile ILIKE $2 OR a.email ILIKE $2
		ORDER BY a.created_at DESC LIMIT $3 OFFSET $4`,
		q.Search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]Agent, 0, limit)
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

func (s *PGStore) CreateAgentUser(ctx context.Context, u *AgentUser) (string, error) {
	if _, err := s.GetAgent(ctx, u.AgentID); err != nil {
		return "", err
	}
	if u.ID == "" {
		u.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO agent_users (id, agent_id, name, phone, available_balance, status, last_login_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		u.ID, u.AgentID, u.Name, u.Phone, u.AvailableBalance, u.Status, u.LastLoginTime)
	return u.ID, err
}

func (s *PGStore) GetAgentUser(ctx context.Context, id string) (*AgentUser, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, agent_id, name, phone, available_balance, status, last_login_time, created_at
		FROM agent_users WHERE id = $1`, id)
	return scanAgentUser(row)
}

func scanAgentUser(row pgx.Row) (*AgentUser, error) {
	var u AgentUser
	if err := row.Scan(&u.ID, &u.AgentID, &u.Name, &u.Phone, &u.AvailableBalance, &u.Status,
		&u.LastLoginTime, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PGStore) UpdateAgentUser(ctx context.Context, u *AgentUser) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE agent_users SET name=$2, phone=$3, status=$4, last_login_time=$5 WHERE id=$1`,
		u.ID, u.Name, u.Phone, u.Status, u.LastLoginTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ListAgentUsers(ctx context.Context, q ListQuery) ([]AgentUser, int, error) {
	pattern := "%" + q.Search + "%"
	var total int
	err := s.Pool.QueryRow(ctx, `
		SELECT count(*) FROM agent_users
		WHERE ($1 = '' OR agent_id = $1) AND ($2 = '' OR name ILIKE $3 OR phone ILIKE $3)`,
		q.AgentID, q.Search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	limit, offset := limitOffset(q.Page, q.Limit)
	rows, err := s.Pool.Query(ctx, `
		SELECT id, agent_id, name, phone, available_balance, status, last_login_time, created_at
		FROM agent_users
		WHERE ($1 = '' OR agent_id = $1) AND ($2 = '' OR name ILIKE $3 OR phone ILIKE $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`,
		q.AgentID, q.Search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]AgentUser, 0, limit)
	for rows.Next() {
		u, err := scanAgentUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *u)
	}
	return items, total, rows.Err()
}

func (s *PGStore) CommitFundTransaction(ctx context.Context, txn *Transaction, agentBalance int64, userBalance *int64) error {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var agentBal int64
	if err := tx.QueryRow(ctx, `SELECT coins_balance FROM agents WHERE id = $1 FOR UPDATE`, txn.AgentID).Scan(&agentBal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if agentBal != txn.AgentBalanceBefore {
		return ErrStaleSnapshot
	}
	if txn.UserID != nil {
		if userBalance == nil || txn.UserBalanceBefore == nil {
			return ErrStaleSnapshot
		}
		var userBal int64
		if err := tx.QueryRow(ctx, `SELECT available_balance FROM agent_users WHERE id = $1 FOR UPDATE`, *txn.UserID).Scan(&userBal); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if userBal != *txn.UserBalanceBefore {
			return ErrStaleSnapshot
		}
		if _, err := tx.Exec(ctx, `UPDATE agent_users SET available_balance = $2 WHERE id = $1`, *txn.UserID, *userBalance); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE agents SET coins_balance = $2, updated_at = now() WHERE id = $1`, txn.AgentID, agentBalance); err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, agent_id, type, amount, user_id, user_name, created_by,
			user_balance_before, user_balance_after, agent_balance_before, agent_balance_after, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		txn.ID, txn.AgentID, string(txn.Type), txn.Amount, txn.UserID, txn.UserName, txn.CreatedBy,
		txn.UserBalanceBefore, txn.UserBalanceAfter, txn.AgentBalanceBefore, txn.AgentBalanceAfter, txn.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PGStore) ListTransactions(ctx context.Context, f TransactionFilter, page, limit int) ([]Transaction, int, error) {
	namePattern := "%" + f.UserName + "%"
	where := `($1 = '' OR type = $1) AND ($2 = '' OR user_id = $2) AND ($3 = '' OR user_name ILIKE $4)`
	var total int
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM transactions WHERE `+where,
		string(f.Type), f.UserID, f.UserName, namePattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	lim, offset := limitOffset(page, limit)
	rows, err := s.Pool.Query(ctx, fmt.Sprintf(`
		SELECT id, agent_id, type, amount, user_id, user_name, created_by,
		       user_balance_before, user_balance_after, agent_balance_before, agent_balance_after, created_at
		FROM transactions WHERE %s ORDER BY created_at DESC LIMIT $5 OFFSET $6`, where),
		string(f.Type), f.UserID, f.UserName, namePattern, lim, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]Transaction, 0, lim)
	for rows.Next() {
		var t Transaction
		var typ string
		if err := rows.Scan(&t.ID, &t.AgentID, &typ, &t.Amount, &t.UserID, &t.UserName, &t.CreatedBy,
			&t.UserBalanceBefore, &t.UserBalanceAfter, &t.AgentBalanceBefore, &t.AgentBalanceAfter, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		t.Type = TxnType(typ)
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (s *PGStore) ListUserTransactions(ctx context.Context, userID string, page, limit int) ([]Transaction, int, error) {
	return s.ListTransactions(ctx, TransactionFilter{UserID: userID}, page, limit)
}

func (s *PGStore) GetSessionMode(ctx context.Context, game string) (string, error) {
	var mode string
	err := s.Pool.QueryRow(ctx, `SELECT mode FROM session_modes WHERE game = $1`, game).Scan(&mode)
	if errors.Is(err, pgx.ErrNoRows) {
		return "automatic", nil
	}
	return mode, err
}

func (s *PGStore) SetSessionMode(ctx context.Context, game, mode string) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO session_modes (game, mode) VALUES ($1, $2)
		ON CONFLICT (game) DO UPDATE SET mode = EXCLUDED.mode`, game, mode)
	return err
}

func (s *PGStore) InsertGameSession(ctx context.Context, sess *GameSession) (string, error) {
	if sess.ID == "" {
		sess.ID = NewID()
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO game_sessions (id, game, mode, total_bets, total_bet_amount, total_winning_amount, started_at, ended_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sess.ID, sess.Game, sess.Mode, sess.TotalBets, sess.TotalBetAmount, sess.TotalWinningAmount, sess.StartedAt, sess.EndedAt)
	return sess.ID, err
}

func (s *PGStore) ListGameSessions(ctx context.Context, game, search string, page, limit int) ([]GameSession, int, error) {
	pattern := "%" + search + "%"
	var total int
	err := s.Pool.QueryRow(ctx, `
		SELECT count(*) FROM game_sessions
		WHERE game = $1 AND ($2 = '' OR id ILIKE $3 OR mode ILIKE $3)`,
		game, search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	lim, offset := limitOffset(page, limit)
	rows, err := s.Pool.Query(ctx, `
		SELECT id, game, mode, total_bets, total_bet_amount, total_winning_amount, started_at, ended_at
		FROM game_sessions
		WHERE game = $1 AND ($2 = '' OR id ILIKE $3 OR mode ILIKE $3)
		ORDER BY started_at DESC LIMIT $4 OFFSET $5`,
		game, search, pattern, lim, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]GameSession, 0, lim)
	for rows.Next() {
		var sess GameSession
		if err := rows.Scan(&sess.ID, &sess.Game, &sess.Mode, &sess.TotalBets, &sess.TotalBetAmount,
			&sess.TotalWinningAmount, &sess.StartedAt, &sess.EndedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, sess)
	}
	return items, total, rows.Err()
}

func (s *PGStore) GameDailyStats(ctx context.Context, game string, day time.Time) (DailyStats, error) {
	if day.IsZero() {
		day = time.Now().UTC()
	}
	date := day.UTC().Format("2006-01-02")
	stats := DailyStats{Date: date}
	err := s.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_bet_amount), 0), COALESCE(SUM(total_winning_amount), 0)
		FROM game_sessions
		WHERE game = $1 AND date_trunc('day', started_at AT TIME ZONE 'UTC') = $2::date`,
		game, date).Scan(&stats.TotalBetAmount, &stats.TotalWinningAmount)
	return stats, err
}

func limitOffset(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return limit, (page - 1) * limit
}
