package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/duel"
	"subspace_duel/internal/service"
)

type duelRequest struct {
	DefenderID   int64           `json:"defender_id" binding:"required"`
	AttackerCard domain.CardType `json:"attacker_card" binding:"required"`
	DefenderCard domain.CardType `json:"defender_card" binding:"required"`
}

type operatorDuelRequest struct {
	AttackerID int64 `json:"attacker_id" binding:"required"`
	duelRequest
}

type DuelResponse struct {
	Result  domain.DuelResult  `json:"result"`
	Banner  duel.Banner        `json:"banner"`
	Context duel.ResultContext `json:"context"`
}

// Duel starts a duel as the token's player.
func (h *Handler) Duel(c *gin.Context) {
	attackerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req duelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.runDuel(c, attackerID, req)
}

// OperatorDuel starts a duel on behalf of any player, e.g. an AI racer.
func (h *Handler) OperatorDuel(c *gin.Context) {
	var req operatorDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.runDuel(c, req.AttackerID, req.duelRequest)
}

// runDuel passes cards through unparsed so bad ones surface as an invalid-card refusal.
func (h *Handler) runDuel(c *gin.Context, attackerID int64, req duelRequest) {
	h.withPlayer(c, attackerID, func(s *service.SessionService) {
		if !s.HasPlayer(req.DefenderID) {
			unknownPlayer(c, req.DefenderID)
			return
		}
		result, reason := s.TryInitiateDuel(attackerID, req.DefenderID, req.AttackerCard, req.DefenderCard)
		if reason != domain.FailNone {
			c.JSON(http.StatusConflict, gin.H{"error": "duel refused", "reason": reason})
			return
		}
		c.JSON(http.StatusOK, DuelResponse{
			Result:  result,
			Banner:  duel.PickBannerFor(result),
			Context: duel.NewResultContext(result),
		})
	})
}
