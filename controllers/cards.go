package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yebeniyam/bingo/game"
	"github.com/yebeniyam/bingo/models"
)

type CardController struct {
	registry *game.Registry
}

func NewCardController(registry *game.Registry) *CardController {
	return &CardController{registry: registry}
}

type cardView struct {
	models.Card
	Taken bool `json:"taken"`
}

// List handles GET /cards: the fixed pool with current reservation flags.
func (cc *CardController) List(c *gin.Context) {
	reservations, err := cc.registry.Reservations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	pool := cc.registry.CardPool()
	out := make([]cardView, len(pool))
	for i, card := range pool {
		_, taken := reservations[card.Index]
		out[i] = cardView{Card: card, Taken: taken}
	}
	c.JSON(http.StatusOK, gin.H{"cards": out})
}
