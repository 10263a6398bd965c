package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"subspace_duel/internal/domain"
)

type DuelHistoryRepository struct {
	db *pgxpool.Pool
}

func NewDuelHistoryRepository(db *pgxpool.Pool) *DuelHistoryRepository {
	return &DuelHistoryRepository{db: db}
}

// Create stores one resolved duel. The full result goes into details so
// phase flags survive without a column each.
func (r *DuelHistoryRepository) Create(ctx context.Context, rec *domain.DuelRecord) error {
	details, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encode duel result: %w", err)
	}

	res := rec.Result
	return r.db.QueryRow(ctx,
		`INSERT INTO duel_history
			(session_id, attacker_id, defender_id, phase,
			 original_attacker_card, original_defender_card, attacker_card, defender_card, destiny_card,
			 outcome, destiny_match, reward_multiplier, penalty_multiplier, banner, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING id, created_at`,
		rec.SessionID, res.AttackerID, res.DefenderID, res.Phase,
		res.OriginalAttackerCard, res.OriginalDefenderCard, res.AttackerCard, res.DefenderCard, res.DestinyCard,
		res.Outcome, res.DestinyMatch, res.RewardMultiplier, res.PenaltyMultiplier, rec.Banner, details,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// GetByPlayer returns the player's duels as either side, newest first.
func (r *DuelHistoryRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.DuelRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, session_id::text, banner, details, created_at
		 FROM duel_history
		 WHERE attacker_id = $1 OR defender_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanDuels(rows)
}

func (r *DuelHistoryRepository) GetBySession(ctx context.Context, sessionID string) ([]*domain.DuelRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, session_id::text, banner, details, created_at
		 FROM duel_history
		 WHERE session_id = $1
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	return scanDuels(rows)
}

// PlayerStats aggregates every duel the player took part in.
func (r *DuelHistoryRepository) PlayerStats(ctx context.Context, playerID int64) (*domain.PlayerDuelStats, error) {
	stats := &domain.PlayerDuelStats{PlayerID: playerID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE (outcome = 'win' AND attacker_id = $1) OR (outcome = 'lose' AND defender_id = $1)),
			COUNT(*) FILTER (WHERE (outcome = 'lose' AND attacker_id = $1) OR (outcome = 'win' AND defender_id = $1)),
			COUNT(*) FILTER (WHERE outcome = 'draw'),
			COUNT(*) FILTER (WHERE (attacker_id = $1 AND attacker_card = destiny_card) OR (defender_id = $1 AND defender_card = destiny_card)),
			COUNT(*) FILTER (WHERE destiny_match = 'both_matched_draw')
		 FROM duel_history
		 WHERE attacker_id = $1 OR defender_id = $1`,
		playerID,
	).Scan(&stats.TotalDuels, &stats.Wins, &stats.Losses, &stats.Draws, &stats.DestinyHits, &stats.ConquerHeaven)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanDuels(rows pgx.Rows) ([]*domain.DuelRecord, error) {
	defer rows.Close()

	var out []*domain.DuelRecord
	for rows.Next() {
		rec := &domain.DuelRecord{}
		var details []byte
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Banner, &details, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &rec.Result); err != nil {
			return nil, fmt.Errorf("decode duel %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
