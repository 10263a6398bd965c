package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subspace_duel/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.SessionRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO duel_sessions (id, phase, balance_version, player_count, started_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Phase, s.BalanceVersion, s.PlayerCount, s.StartedAt,
	)
	return err
}

// End stamps the end time and freezes the duel count from history.
func (r *SessionRepository) End(ctx context.Context, id string, endedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE duel_sessions
		 SET ended_at = $2,
		     duel_count = (SELECT COUNT(*) FROM duel_history WHERE session_id = $1)
		 WHERE id = $1`,
		id, endedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	s := &domain.SessionRecord{}
	err := r.db.QueryRow(ctx,
		`SELECT id::text, phase, balance_version, player_count, duel_count, started_at, ended_at
		 FROM duel_sessions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.Phase, &s.BalanceVersion, &s.PlayerCount, &s.DuelCount, &s.StartedAt, &s.EndedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
