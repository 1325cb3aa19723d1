package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yebeniyam/bingo/models"
	"github.com/yebeniyam/bingo/services"
)

type WalletController struct {
	wallet *services.Wallet
}

func NewWalletController(wallet *services.Wallet) *WalletController {
	return &WalletController{wallet: wallet}
}

type walletRequest struct {
	UserID string  `json:"userId" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Deposit handles POST /wallet/deposit.
func (wc *WalletController) Deposit(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.ErrValidation("invalid request body: %v", err))
		return
	}

	tx, newBalance, err := wc.wallet.Deposit(c.Request.Context(), req.UserID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newBalance":    newBalance,
		"transactionId": tx.ID,
		"status":        tx.Status,
	})
}

// Withdraw handles POST /wallet/withdraw.
func (wc *WalletController) Withdraw(c *gin.Context) {
	var req walletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.ErrValidation("invalid request body: %v", err))
		return
	}

	tx, newBalance, err := wc.wallet.Withdraw(c.Request.Context(), req.UserID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"newBalance":    newBalance,
		"transactionId": tx.ID,
		"status":        tx.Status,
	})
}

// Balance handles GET /wallet/balance?userId=.
func (wc *WalletController) Balance(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		respondError(c, models.ErrValidation("userId query parameter is required"))
		return
	}

	balance, err := wc.wallet.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "balance": balance})
}

// DepositHistory handles GET /wallet/deposit/history?userId=&limit=.
func (wc *WalletController) DepositHistory(c *gin.Context) {
	wc.history(c, models.TransactionDeposit)
}

// WithdrawHistory handles GET /wallet/withdraw/history?userId=&limit=.
func (wc *WalletController) WithdrawHistory(c *gin.Context) {
	wc.history(c, models.TransactionWithdraw)
}

func (wc *WalletController) history(c *gin.Context, kind models.TransactionKind) {
	userID := c.Query("userId")
	if userID == "" {
		respondError(c, models.ErrValidation("userId query parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	txs, err := wc.wallet.History(c.Request.Context(), userID, kind, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID, "transactions": txs})
}
