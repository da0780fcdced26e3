package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "isave/internal/errors"
	"isave/internal/models"
	"isave/internal/pagination"
	"isave/internal/services"
)

// WalletHandler handles wallet and ledger requests
type WalletHandler struct {
	walletService services.WalletServicer
	auditService  services.AuditServicer
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletServicer, auditService services.AuditServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService, auditService: auditService}
}

// FundWalletRequest represents the request body for funding a wallet.
// Amount is in minor units.
type FundWalletRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=255"`
}

// TransactionQuery represents the query parameters for listing ledger entries.
type TransactionQuery struct {
	pagination.PageRequest
	Type       string `form:"type" binding:"omitempty,transaction_type"`
	Status     string `form:"status" binding:"omitempty,transaction_status"`
	SavePlanID string `form:"save_plan_id" binding:"omitempty,uuid"`
}

// GetWallet returns the authenticated user's wallet
// @Summary     Get wallet
// @Description Get the authenticated user's wallet and available balance
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.Wallet
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// FundWallet credits the authenticated user's wallet
// @Summary     Fund wallet
// @Description Credit the wallet with a deposit. Amount is in minor units.
// @Tags        wallet
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FundWalletRequest true "Funding details"
// @Success     201 {object} map[string]models.Transaction
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /wallet/fund [post]
func (h *WalletHandler) FundWallet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FundWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	txn, err := h.walletService.FundWallet(c.Request.Context(), userID, req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "FUND_WALLET", "wallet", txn.WalletID, c.ClientIP(),
		map[string]any{"amount": req.Amount, "transaction_id": txn.ID})

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// GetWalletTransactions lists the wallet's ledger entries
// @Summary     List wallet transactions
// @Description Get a paginated list of ledger entries, newest first
// @Tags        wallet
// @Produce     json
// @Security    BearerAuth
// @Param       page         query int    false "Page number"
// @Param       page_size    query int    false "Page size"
// @Param       type         query string false "Transaction type"
// @Param       status       query string false "Transaction status"
// @Param       save_plan_id query string false "Savings plan ID"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse
// @Failure     401 {object} ErrorResponse
// @Failure     404 {object} ErrorResponse
// @Router      /wallet/transactions [get]
func (h *WalletHandler) GetWalletTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query TransactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if query.Type != "" {
		t := models.TransactionType(query.Type)
		filter.Type = &t
	}
	if query.Status != "" {
		s := models.TransactionStatus(query.Status)
		filter.Status = &s
	}
	if query.SavePlanID != "" {
		filter.SavePlanID = &query.SavePlanID
	}

	result, err := h.walletService.GetWalletTransactions(c.Request.Context(), userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
