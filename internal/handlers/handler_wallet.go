package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"fx-payment-processor/internal/apperrors"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/dto"
	"fx-payment-processor/internal/middleware"

	"github.com/gin-gonic/gin"
)

// walletHandler handles HTTP requests for wallet operations.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

// newWalletHandler creates a new walletHandler.
func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{walletService: ws}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade) {
	h := newWalletHandler(walletService)

	wallets := rg.Group("/wallets")
	{
		wallets.POST("/:userID/fund", h.fund)
		wallets.POST("/:userID/withdraw", h.withdraw)
		wallets.POST("/:userID/convert", h.convert)
		wallets.GET("/:userID/balances", h.getBalances)
		wallets.GET("/:userID/balances/:currency", h.getBalance)
		wallets.GET("/:userID/transactions", h.listTransactions)
	}
}

// writeOperationError maps ledger engine errors onto HTTP status codes.
// Every error carries user/currency/amount context from the service layer.
func writeOperationError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrInvalidConversion),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Wallet operation rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnsupportedCurrency),
		errors.Is(err, apperrors.ErrUnsupportedCurrencyPair):
		logger.Warn("Unsupported currency in wallet operation", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		logger.Warn("Insufficient funds for wallet operation", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPersistenceFailure):
		logger.Error("Durable log rejected wallet operation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to persist operation"})
	default:
		logger.Error("Wallet operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// fund godoc
// @Summary Fund a wallet
// @Description Credits the given amount of a currency to the user's wallet
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   request body dto.FundRequest true "Funding details"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} map[string]string "Invalid request or amount"
// @Failure 422 {object} map[string]string "Unsupported currency"
// @Router /wallets/{userID}/fund [post]
func (h *walletHandler) fund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for fund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.walletService.Fund(c.Request.Context(), userID, req)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOperationResponse(txn))
}

// withdraw godoc
// @Summary Withdraw from a wallet
// @Description Debits the given amount of a currency from the user's wallet
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   request body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} map[string]string "Invalid request or amount"
// @Failure 409 {object} map[string]string "Insufficient funds"
// @Failure 422 {object} map[string]string "Unsupported currency"
// @Router /wallets/{userID}/withdraw [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.walletService.Withdraw(c.Request.Context(), userID, req)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOperationResponse(txn))
}

// convert godoc
// @Summary Convert between currencies
// @Description Converts an amount from one currency to another at the fixed rate
// @Tags wallets
// @Accept  json
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   request body dto.ConvertRequest true "Conversion details"
// @Success 201 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid request, amount or same-currency conversion"
// @Failure 409 {object} map[string]string "Insufficient funds"
// @Failure 422 {object} map[string]string "Unsupported currency or pair"
// @Router /wallets/{userID}/convert [post]
func (h *walletHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.walletService.Convert(c.Request.Context(), userID, req)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToConvertResponse(txn))
}

// getBalances godoc
// @Summary Get all balances
// @Description Returns all per-currency balances for a user
// @Tags wallets
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.BalancesResponse
// @Router /wallets/{userID}/balances [get]
func (h *walletHandler) getBalances(c *gin.Context) {
	userID := c.Param("userID")

	balances, err := h.walletService.GetBalances(c.Request.Context(), userID)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalancesResponse{UserID: userID, Balances: balances})
}

// getBalance godoc
// @Summary Get a single balance
// @Description Returns the balance of one currency for a user; unknown users and currencies read as zero
// @Tags wallets
// @Produce  json
// @Param   userID path string true "User ID"
// @Param   currency path string true "Currency code (3 letters)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Router /wallets/{userID}/balances/{currency} [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	userID := c.Param("userID")
	currencyCode := c.Param("currency")

	if len(currencyCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	money, err := h.walletService.GetBalance(c.Request.Context(), userID, currencyCode)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponse(userID, money))
}

// listTransactions godoc
// @Summary List a user's transactions
// @Description Returns the user's transaction history in commit order
// @Tags wallets
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /wallets/{userID}/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	userID := c.Param("userID")

	txns, err := h.walletService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		writeOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		UserID:       userID,
		Transactions: dto.ToTransactionResponses(txns),
	})
}
