package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
)

// treasuryHandler handles HTTP requests for the compound treasury operations.
type treasuryHandler struct {
	treasuryService portssvc.TreasurySvcFacade
}

// registerTreasuryRoutes registers routes related to treasury operations.
func registerTreasuryRoutes(rg *gin.RouterGroup, treasuryService portssvc.TreasurySvcFacade) {
	h := &treasuryHandler{treasuryService: treasuryService}

	treasury := rg.Group("/treasury")
	{
		treasury.POST("/add-cash", h.addCash)
		treasury.POST("/add-bank-balance", h.addBankBalance)
		treasury.POST("/fund-transfer", h.fundTransfer)
		treasury.POST("/payments", h.recordPayment)
	}
}

// addCash godoc
// @Summary Record a cash deposit
// @Description Posts a balanced transaction growing the cash account against the configured capital account
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   deposit body dto.AddCashRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record deposit"
// @Security BearerAuth
// @Router /treasury/add-cash [post]
func (h *treasuryHandler) addCash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddCash", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.AddCash(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record deposit")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// addBankBalance godoc
// @Summary Record a bank deposit
// @Description Posts a balanced transaction growing a named bank account against the configured capital account
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   deposit body dto.AddBankBalanceRequest true "Deposit details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Bank account not found"
// @Failure 422 {object} map[string]string "Account is not a bank account"
// @Failure 500 {object} map[string]string "Failed to record deposit"
// @Security BearerAuth
// @Router /treasury/add-bank-balance [post]
func (h *treasuryHandler) addBankBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddBankBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddBankBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.AddBankBalance(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record deposit")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// fundTransfer godoc
// @Summary Transfer funds between accounts
// @Description Posts a balanced transaction moving funds between two cash/bank accounts; the source may not go negative
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   transfer body dto.FundTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 422 {object} map[string]string "Insufficient balance or account cannot hold funds"
// @Failure 500 {object} map[string]string "Failed to record transfer"
// @Security BearerAuth
// @Router /treasury/fund-transfer [post]
func (h *treasuryHandler) fundTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FundTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FundTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.FundTransfer(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record transfer")
		return
	}

	logger.Info("Fund transfer recorded", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// recordPayment godoc
// @Summary Record a payment
// @Description Settles a supplier payable or customer receivable against a cash/bank account; repeats of the same reference are rejected
// @Tags treasury
// @Accept  json
// @Produce  json
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment account not found"
// @Failure 409 {object} map[string]string "Payment already recorded for this reference"
// @Failure 422 {object} map[string]string "Insufficient balance or payment method not supported by account"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /treasury/payments [post]
func (h *treasuryHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.treasuryService.RecordPayment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("method", req.Method))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}
