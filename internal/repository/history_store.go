package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"subspace_duel/internal/domain"
)

// HistoryStore is the write side the history worker needs.
type HistoryStore struct {
	Sessions *SessionRepository
	Duels    *DuelHistoryRepository
}

func NewHistoryStore(db *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{
		Sessions: NewSessionRepository(db),
		Duels:    NewDuelHistoryRepository(db),
	}
}

func (h *HistoryStore) SaveSession(ctx context.Context, s *domain.SessionRecord) error {
	return h.Sessions.Create(ctx, s)
}

func (h *HistoryStore) EndSession(ctx context.Context, id string, at time.Time) error {
	return h.Sessions.End(ctx, id, at)
}

func (h *HistoryStore) SaveDuel(ctx context.Context, d *domain.DuelRecord) error {
	return h.Duels.Create(ctx, d)
}
