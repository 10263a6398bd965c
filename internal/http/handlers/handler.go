package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"subspace_duel/internal/domain"
	"subspace_duel/internal/service"
)

// HistoryReader is the read side of duel history. Nil when no database is configured.
type HistoryReader interface {
	GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.DuelRecord, error)
	PlayerStats(ctx context.Context, playerID int64) (*domain.PlayerDuelStats, error)
}

type Handler struct {
	Engine  *service.Engine
	History HistoryReader
}

func NewHandler(engine *service.Engine, history HistoryReader) *Handler {
	return &Handler{Engine: engine, History: history}
}

// getPlayerID reads the player id the JWT middleware stored.
func getPlayerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("player_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// pathPlayerID parses :id.
func pathPlayerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player id"})
		return 0, false
	}
	return id, true
}

func noSession(c *gin.Context) {
	c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
}

func unknownPlayer(c *gin.Context, id int64) {
	c.JSON(http.StatusNotFound, gin.H{"error": "player not in session", "player_id": id})
}

// withPlayer runs fn under the engine lock once the session is active and
// the player exists; otherwise it writes the error response itself.
func (h *Handler) withPlayer(c *gin.Context, id int64, fn func(s *service.SessionService)) {
	h.Engine.Do(func(s *service.SessionService) {
		switch {
		case !s.Active():
			noSession(c)
		case !s.HasPlayer(id):
			unknownPlayer(c, id)
		default:
			fn(s)
		}
	})
}
