package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
	"github.com/partybook/party_ledger_app/internal/middleware"
)

// diagnosticsHandler handles HTTP requests for integrity sweeps and repair.
type diagnosticsHandler struct {
	diagnosticsService portssvc.DiagnosticsSvcFacade
}

// newDiagnosticsHandler creates a new diagnosticsHandler.
func newDiagnosticsHandler(diagnosticsService portssvc.DiagnosticsSvcFacade) *diagnosticsHandler {
	return &diagnosticsHandler{
		diagnosticsService: diagnosticsService,
	}
}

// registerDiagnosticsRoutes registers the /diagnostics routes.
func registerDiagnosticsRoutes(rg *gin.RouterGroup, diagnosticsService portssvc.DiagnosticsSvcFacade) {
	h := newDiagnosticsHandler(diagnosticsService)

	diagnostics := rg.Group("/diagnostics")
	{
		diagnostics.GET("", h.runDiagnostics)
		diagnostics.POST("/repair", h.repairOrphans)
	}
}

// runDiagnostics godoc
// @Summary Run ledger diagnostics
// @Description Sweeps the user's entries for orphaned settlement links, dangling settlements and stale unsettled entries. Read-only.
// @Tags diagnostics
// @Produce json
// @Param party query string false "Limit the sweep to one party"
// @Success 200 {object} dto.DiagnosticsResponse
// @Failure 500 {object} map[string]string "Failed to run diagnostics"
// @Router /diagnostics [get]
func (h *diagnosticsHandler) runDiagnostics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var partyName *string
	if p := c.Query("party"); p != "" {
		partyName = &p
	}

	report, err := h.diagnosticsService.RunDiagnostics(c.Request.Context(), userID, partyName)
	if err != nil {
		logger.Error("Failed to run diagnostics", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run diagnostics"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDiagnosticsResponse(report))
}

// repairOrphans godoc
// @Summary Repair orphaned settlement links
// @Description Re-links or clears orphaned settlement references for one party. Every applied change is returned for the audit log.
// @Tags diagnostics
// @Accept json
// @Produce json
// @Param repair body dto.RepairRequest true "Repair target"
// @Success 200 {object} dto.RepairResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Entry belongs to another user"
// @Failure 500 {object} map[string]string "Failed to repair"
// @Router /diagnostics/repair [post]
func (h *diagnosticsHandler) repairOrphans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RepairRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	actions, err := h.diagnosticsService.RepairOrphans(c.Request.Context(), userID, req.PartyName, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to repair orphans", slog.String("error", err.Error()), slog.String("party", req.PartyName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to repair"})
		return
	}

	logger.Info("Repair applied", slog.String("party", req.PartyName), slog.Int("action_count", len(actions)))
	c.JSON(http.StatusOK, dto.ToRepairResponse(actions))
}
