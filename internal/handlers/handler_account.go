package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openledgerhq/ledger_engine/internal/apperrors"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/internal/dto"
	"github.com/openledgerhq/ledger_engine/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts and
// per-account ledger views.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := &accountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.GET("/:code/balance", h.getBalance)
		accounts.GET("/:code/ledger", h.getLedger)
	}
}

// createAccount godoc
// @Summary Register a new account
// @Description Adds a new account to the chart of accounts
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Account code already registered"
// @Failure 500 {object} map[string]string "Failed to register account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.RegisterAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register account")
		return
	}

	logger.Info("Account registered", slog.String("account_code", account.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by code
// @Description Retrieves details for a specific account by its code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	account, err := h.accountService.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownAccount) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts, optionally filtered by type and capability flags
// @Tags accounts
// @Produce  json
// @Param   type query string false "Account type filter" Enums(ASSET, LIABILITY, EQUITY, INCOME, EXPENSE)
// @Param   isCash query bool false "Cash capability filter"
// @Param   isBank query bool false "Bank capability filter"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getBalance godoc
// @Summary Get an account balance
// @Description Derives the account's normal-side balance from the entry log as of a date
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   asOf query string false "Inclusive date upper bound (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf date"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to derive balance"
// @Security BearerAuth
// @Router /accounts/{code}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}

	balance, err := h.ledgerService.BalanceAsOf(c.Request.Context(), code, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownAccount) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		respondServiceError(c, logger, err, "Failed to derive balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountCode: code,
		AsOf:        asOf.Format(dto.DateFormat),
		Balance:     balance,
	})
}

// getLedger godoc
// @Summary Get an account ledger page
// @Description Returns one page of the account's chronological ledger with running balances
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Param   asOf query string false "Inclusive date upper bound (YYYY-MM-DD), defaults to today"
// @Param   page query int false "Page number (1-based)" default(1)
// @Param   limit query int false "Page size" default(20)
// @Success 200 {object} dto.LedgerPageResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger page"
// @Security BearerAuth
// @Router /accounts/{code}/ledger [get]
func (h *accountHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	asOf, ok := parseAsOf(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ledgerPage, err := h.ledgerService.PageLedger(c.Request.Context(), code, dto.LedgerPageParams{
		AsOf:  asOf,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrUnknownAccount) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		respondServiceError(c, logger, err, "Failed to build ledger page")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerPageResponse(ledgerPage))
}

// parseAsOf reads the optional asOf query date, defaulting to now. It writes
// the error response itself when the date is malformed.
func parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(dto.DateFormat, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}
