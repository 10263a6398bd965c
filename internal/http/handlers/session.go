package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/game"
	"subspace_duel/internal/service"
)

type startSessionRequest struct {
	PlayerIDs []int64          `json:"player_ids" binding:"required"`
	Phase     domain.PhaseType `json:"phase"`
}

// StartSession locks a phase and deals every player in. An empty phase draws one by weight.
func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	var (
		id    string
		phase domain.PhaseType
		err   error
	)
	h.Engine.Do(func(s *service.SessionService) {
		id, err = s.InitializeSessionWithPhase(req.PlayerIDs, req.Phase)
		if err == nil {
			phase, _ = s.Phase()
		}
	})

	switch {
	case errors.Is(err, service.ErrSessionActive):
		c.JSON(http.StatusConflict, gin.H{"error": "session already active"})
	case errors.Is(err, service.ErrInvalidPlayers), errors.Is(err, game.ErrUnknownPhase):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
	default:
		c.JSON(http.StatusCreated, gin.H{"session_id": id, "phase": phase})
	}
}

func (h *Handler) EndSession(c *gin.Context) {
	var (
		id    string
		ended bool
	)
	h.Engine.Do(func(s *service.SessionService) {
		if !s.Active() {
			return
		}
		id = s.SessionID()
		s.EndSession()
		ended = true
	})
	if !ended {
		noSession(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "ended": true})
}

// Snapshot is the diagnostics view of the whole session.
func (h *Handler) Snapshot(c *gin.Context) {
	var snap service.Snapshot
	h.Engine.Do(func(s *service.SessionService) { snap = s.Snapshot() })
	c.JSON(http.StatusOK, snap)
}

// ReloadBalance re-reads balance env vars for the next session.
func (h *Handler) ReloadBalance(c *gin.Context) {
	var (
		version int
		err     error
	)
	h.Engine.Do(func(s *service.SessionService) {
		next := s.Balance().Reloaded()
		if err = s.ReloadBalance(next); err == nil {
			version = next.Version
		}
	})
	switch {
	case errors.Is(err, service.ErrSessionActive):
		c.JSON(http.StatusConflict, gin.H{"error": "end the session before reloading balance"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"balance_version": version})
	}
}
