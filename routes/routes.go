package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yebeniyam/bingo/controllers"
	"github.com/yebeniyam/bingo/services"
)

func SetupRoutes(
	r *gin.Engine,
	sessions *controllers.SessionController,
	stream *controllers.StreamController,
	cards *controllers.CardController,
	wallet *controllers.WalletController,
	ws *services.WSService,
) {
	// ----------------------
	// Session routes
	// ----------------------
	r.POST("/sessions", sessions.Create)
	r.POST("/sessions/join", sessions.Join)
	r.GET("/sessions/:id", sessions.Get)
	r.GET("/sessions/:id/stream", stream.Stream)

	// WebSocket mirror of the SSE stream
	r.GET("/ws/sessions/:id", ws.Handle)

	// ----------------------
	// Card pool
	// ----------------------
	r.GET("/cards", cards.List)

	// ----------------------
	// Wallet routes
	// ----------------------
	w := r.Group("/wallet")
	w.POST("/deposit", wallet.Deposit)
	w.POST("/withdraw", wallet.Withdraw)
	w.GET("/balance", wallet.Balance)
	w.GET("/deposit/history", wallet.DepositHistory)
	w.GET("/withdraw/history", wallet.WithdrawHistory)
}
