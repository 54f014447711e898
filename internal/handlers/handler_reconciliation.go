package handlers

import (
	"log/slog"
	"net/http"

	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/dto"
	"fx-payment-processor/internal/middleware"

	"github.com/gin-gonic/gin"
)

// reconciliationHandler exposes the audit endpoints. Reconciliation reads
// never mutate wallet or ledger state.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers the audit routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	rg.GET("/reconciliation", h.reconcileAll)
	rg.GET("/wallets/:userID/reconciliation", h.reconcileUser)
}

// reconcileUser godoc
// @Summary Reconcile one user's wallet
// @Description Replays the user's transaction history and compares it against live balances
// @Tags reconciliation
// @Produce  json
// @Param   userID path string true "User ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 500 {object} map[string]string "Reconciliation failed"
// @Router /wallets/{userID}/reconciliation [get]
func (h *reconciliationHandler) reconcileUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	result, err := h.reconciliationService.ReconcileUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to reconcile user", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile wallet"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(result))
}

// reconcileAll godoc
// @Summary Reconcile every wallet
// @Description Runs reconciliation for every user with a transaction history
// @Tags reconciliation
// @Produce  json
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Failure 500 {object} map[string]string "Reconciliation failed"
// @Router /reconciliation [get]
func (h *reconciliationHandler) reconcileAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reconciliationService.ReconcileAll(c.Request.Context())
	if err != nil {
		logger.Error("Failed to reconcile all wallets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile wallets"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationSummaryResponse(summary))
}
