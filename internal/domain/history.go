package domain

import "time"

// SessionRecord - persisted summary of one session
type SessionRecord struct {
	ID             string     `db:"id" json:"id"`
	Phase          PhaseType  `db:"phase" json:"phase"`
	BalanceVersion int        `db:"balance_version" json:"balance_version"`
	PlayerCount    int        `db:"player_count" json:"player_count"`
	DuelCount      int        `db:"duel_count" json:"duel_count"`
	StartedAt      time.Time  `db:"started_at" json:"started_at"`
	EndedAt        *time.Time `db:"ended_at" json:"ended_at,omitempty"`
}

// DuelRecord - persisted duel outcome, one row per resolved duel
type DuelRecord struct {
	ID        int64      `db:"id" json:"id"`
	SessionID string     `db:"session_id" json:"session_id"`
	Result    DuelResult `db:"-" json:"result"`
	Banner    string     `db:"banner" json:"banner"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// PlayerDuelStats - aggregate duel numbers for one player
type PlayerDuelStats struct {
	PlayerID      int64 `json:"player_id"`
	TotalDuels    int   `json:"total_duels"`
	Wins          int   `json:"wins"`
	Losses        int   `json:"losses"`
	Draws         int   `json:"draws"`
	DestinyHits   int   `json:"destiny_hits"`
	ConquerHeaven int   `json:"conquer_heaven"`
}
