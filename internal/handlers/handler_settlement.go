package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
	"github.com/partybook/party_ledger_app/internal/middleware"
)

// settlementHandler handles the cross-party settlement listing. The per-party
// settle and listing routes live under /parties.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(settlementService portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{
		settlementService: settlementService,
	}
}

// registerSettlementRoutes registers the /settlements routes.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.GET("", h.listSettlements)
	}
}

// listSettlements godoc
// @Summary List all settlements
// @Description Retrieves the user's settlements across all parties in chronological order
// @Tags settlements
// @Produce json
// @Success 200 {array} dto.SettlementResponse
// @Router /settlements [get]
func (h *settlementHandler) listSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settlements, err := h.settlementService.ListSettlements(c.Request.Context(), userID, nil)
	if err != nil {
		logger.Error("Failed to list settlements", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settlements"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponses(settlements))
}
