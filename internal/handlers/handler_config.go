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

// configHandler handles HTTP requests for the per-user ledger configuration.
type configHandler struct {
	userConfigService portssvc.UserConfigSvcFacade
}

// newConfigHandler creates a new configHandler.
func newConfigHandler(userConfigService portssvc.UserConfigSvcFacade) *configHandler {
	return &configHandler{
		userConfigService: userConfigService,
	}
}

// registerConfigRoutes registers the /config routes.
func registerConfigRoutes(rg *gin.RouterGroup, userConfigService portssvc.UserConfigSvcFacade) {
	h := newConfigHandler(userConfigService)

	cfg := rg.Group("/config")
	{
		cfg.GET("", h.getConfig)
		cfg.PUT("", h.updateConfig)
	}
}

// getConfig godoc
// @Summary Get the user's ledger configuration
// @Tags config
// @Produce json
// @Success 200 {object} dto.UserConfigResponse
// @Router /config [get]
func (h *configHandler) getConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cfg, err := h.userConfigService.GetUserConfig(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get user config", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve configuration"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserConfigResponse(cfg))
}

// updateConfig godoc
// @Summary Update the user's ledger configuration
// @Description Updates the company name and default commission rate. Renaming the company re-tags the old company party.
// @Tags config
// @Accept json
// @Produce json
// @Param config body dto.UpdateUserConfigRequest true "Fields to update"
// @Success 200 {object} dto.UserConfigResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /config [put]
func (h *configHandler) updateConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.UpdateUserConfigRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cfg, err := h.userConfigService.UpdateUserConfig(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update user config", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update configuration"})
		return
	}

	logger.Info("User config updated")
	c.JSON(http.StatusOK, dto.ToUserConfigResponse(cfg))
}
