package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stelvault/timelock_app/internal/apperrors"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
	"github.com/stelvault/timelock_app/internal/dto"
	"github.com/stelvault/timelock_app/internal/middleware"
)

// accountHandler handles HTTP requests related to time-lock accounts.
type accountHandler struct {
	accountService    portssvc.AccountSvcFacade
	withdrawalService portssvc.WithdrawalSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ws portssvc.WithdrawalSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:    as,
		withdrawalService: ws,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, as portssvc.AccountSvcFacade, ws portssvc.WithdrawalSvcFacade, mutating ...gin.HandlerFunc) {
	h := newAccountHandler(as, ws)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.GET("/wallet/:address", h.listAccountsByWallet)
		accounts.POST("", append(mutating, h.createAccount)...)
		accounts.PATCH("/:id/withdraw", append(mutating, h.withdraw)...)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create time-lock account",
		slog.String("owner_address", req.OwnerAddress),
		slog.Int("lock_period_days", req.LockPeriodDays))

	account, err := h.accountService.CreateTimeLock(c.Request.Context(), req)
	if err != nil {
		respondAccountError(c, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("id")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondAccountError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondAccountError(c, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

func (h *accountHandler) listAccountsByWallet(c *gin.Context) {
	address := c.Param("address")

	accounts, err := h.accountService.ListAccountsByOwner(c.Request.Context(), address)
	if err != nil {
		respondAccountError(c, err, "Failed to list accounts for wallet")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

func (h *accountHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	logger.Info("Received withdrawal request", slog.String("account_id", accountID))

	account, err := h.withdrawalService.Withdraw(c.Request.Context(), accountID)
	if err != nil {
		respondAccountError(c, err, "Failed to withdraw")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// respondAccountError maps service errors onto the HTTP surface. Every error kind
// in the taxonomy has a fixed status; anything unrecognized is a 500.
func respondAccountError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var snr *apperrors.SettledButNotRecordedError
	switch {
	case errors.As(err, &snr):
		// Funds moved but the ledger write is pending reconciliation. The
		// settlement reference goes back to the caller so recovery is possible.
		logger.Error("Settled but not recorded", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{
			"error":         "settlement confirmed but ledger update pending reconciliation",
			"settlementRef": snr.SettlementRef,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnsupportedPeriod),
		errors.Is(err, apperrors.ErrNotMatured),
		errors.Is(err, apperrors.ErrAlreadyWithdrawn),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSettlementFailed):
		logger.Warn("Settlement rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrSettlementUnconfirmed):
		logger.Warn("Settlement unconfirmed", slog.String("error", err.Error()))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
