package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yebeniyam/bingo/game"
	"github.com/yebeniyam/bingo/models"
)

type SessionController struct {
	registry *game.Registry
}

func NewSessionController(registry *game.Registry) *SessionController {
	return &SessionController{registry: registry}
}

// Create handles POST /sessions.
func (sc *SessionController) Create(c *gin.Context) {
	session, err := sc.registry.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "session": session})
}

type joinRequest struct {
	UserID      string  `json:"userId" binding:"required"`
	SessionID   string  `json:"sessionId"`
	CardIndices []int   `json:"cardIndices" binding:"required"`
	CardCost    float64 `json:"cardCost" binding:"required"`
}

// Join handles POST /sessions/join.
func (sc *SessionController) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.ErrValidation("invalid request body: %v", err))
		return
	}

	session, player, err := sc.registry.JoinSession(c.Request.Context(),
		req.SessionID, req.UserID, req.CardIndices, decimal.NewFromFloat(req.CardCost))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"playerId":  player.ID,
		"gameState": session.State,
	})
}

// Get handles GET /sessions/:id.
func (sc *SessionController) Get(c *gin.Context) {
	session, err := sc.registry.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessionId": session.ID, "session": session})
}
