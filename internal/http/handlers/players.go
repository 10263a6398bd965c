package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/service"
)

type driftRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type addCardRequest struct {
	Type domain.CardType `json:"type" binding:"required"`
	Dark bool            `json:"dark"`
}

type replaceRequest struct {
	Slot *int `json:"slot" binding:"required"`
}

// Drift feeds drift charge from the race simulation.
func (h *Handler) Drift(c *gin.Context) {
	id, ok := pathPlayerID(c)
	if !ok {
		return
	}
	var req driftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withPlayer(c, id, func(s *service.SessionService) {
		full := s.HandleDrift(id, req.Amount)
		p, _ := s.Player(id)
		c.JSON(http.StatusOK, gin.H{"full": full, "filled_slots": p.Charge.FilledSlots()})
	})
}

// AddCard grants a card picked up on track.
func (h *Handler) AddCard(c *gin.Context) {
	id, ok := pathPlayerID(c)
	if !ok {
		return
	}
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card"})
		return
	}
	h.withPlayer(c, id, func(s *service.SessionService) {
		card, placement := s.AddCard(id, req.Type, req.Dark)
		c.JSON(http.StatusOK, gin.H{"card": card, "placement": placement})
	})
}

// ReplaceSlot moves the pending overflow card into a hand slot.
func (h *Handler) ReplaceSlot(c *gin.Context) {
	id, ok := pathPlayerID(c)
	if !ok {
		return
	}
	var req replaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.withPlayer(c, id, func(s *service.SessionService) {
		card, replaced := s.ReplaceSlot(id, *req.Slot)
		if !replaced {
			c.JSON(http.StatusConflict, gin.H{"error": "nothing to replace"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"replaced": card})
	})
}

// Me returns the caller's own state in the running session.
func (h *Handler) Me(c *gin.Context) {
	id, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.withPlayer(c, id, func(s *service.SessionService) {
		snap, _ := s.PlayerSnapshot(id)
		phase, _ := s.Phase()
		c.JSON(http.StatusOK, gin.H{"session_id": s.SessionID(), "phase": phase, "player": snap})
	})
}
