package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partybook/party_ledger_app/internal/apperrors"
	portssvc "github.com/partybook/party_ledger_app/internal/core/ports/services"
	"github.com/partybook/party_ledger_app/internal/dto"
	"github.com/partybook/party_ledger_app/internal/middleware"
)

// partyHandler handles HTTP requests related to parties and their statements.
type partyHandler struct {
	partyService      portssvc.PartySvcFacade
	balanceService    portssvc.BalanceSvcFacade
	settlementService portssvc.SettlementSvcFacade
}

// newPartyHandler creates a new partyHandler.
func newPartyHandler(partyService portssvc.PartySvcFacade, balanceService portssvc.BalanceSvcFacade, settlementService portssvc.SettlementSvcFacade) *partyHandler {
	return &partyHandler{
		partyService:      partyService,
		balanceService:    balanceService,
		settlementService: settlementService,
	}
}

// registerPartyRoutes registers the /parties routes.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade, balanceService portssvc.BalanceSvcFacade, settlementService portssvc.SettlementSvcFacade) {
	h := newPartyHandler(partyService, balanceService, settlementService)

	parties := rg.Group("/parties")
	{
		parties.POST("", h.createParty)
		parties.GET("", h.listParties)
		parties.GET("/:partyName", h.getParty)
		parties.PUT("/:partyName", h.updateParty)
		parties.DELETE("/:partyName", h.deactivateParty)
		parties.GET("/:partyName/entries", h.getPartyStatement)
		parties.GET("/:partyName/balance", h.getClosingBalance)
		parties.POST("/:partyName/settle", h.settleParty)
		parties.GET("/:partyName/settlements", h.listPartySettlements)
	}
}

// createParty godoc
// @Summary Create a party
// @Description Creates a new regular party. Reserved parties are auto-created on first reference instead.
// @Tags parties
// @Accept json
// @Produce json
// @Param party body dto.CreatePartyRequest true "Party data"
// @Success 201 {object} dto.PartyResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Party already exists"
// @Router /parties [post]
func (h *partyHandler) createParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreatePartyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createParty", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.CreateParty(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create party in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToPartyResponse(party))
}

// listParties godoc
// @Summary List parties
// @Description Retrieves all of the user's parties
// @Tags parties
// @Produce json
// @Success 200 {array} dto.PartyResponse
// @Router /parties [get]
func (h *partyHandler) listParties(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	parties, err := h.partyService.ListParties(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to list parties", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list parties"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponses(parties))
}

// getParty godoc
// @Summary Get a party
// @Tags parties
// @Produce json
// @Param partyName path string true "Party name"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Router /parties/{partyName} [get]
func (h *partyHandler) getParty(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.GetPartyByName(c.Request.Context(), userID, c.Param("partyName"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve party"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// updateParty godoc
// @Summary Update a party
// @Description Updates a party's commission mode, commission rate or settlement flag
// @Tags parties
// @Accept json
// @Produce json
// @Param partyName path string true "Party name"
// @Param party body dto.UpdatePartyRequest true "Fields to update"
// @Success 200 {object} dto.PartyResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Router /parties/{partyName} [put]
func (h *partyHandler) updateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.UpdatePartyRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	party, err := h.partyService.UpdateParty(c.Request.Context(), userID, c.Param("partyName"), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to update party in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyResponse(party))
}

// deactivateParty godoc
// @Summary Deactivate a party
// @Description Soft-deactivates a party with ledger entries; a party with none is removed entirely
// @Tags parties
// @Produce json
// @Param partyName path string true "Party name"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Party not found"
// @Router /parties/{partyName} [delete]
func (h *partyHandler) deactivateParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.partyService.DeactivateParty(c.Request.Context(), userID, c.Param("partyName")); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to deactivate party in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate party"})
		return
	}

	c.Status(http.StatusNoContent)
}

// getPartyStatement godoc
// @Summary Get a party's statement
// @Description Retrieves the party's live entries with running balances and the settlement-seeded opening balance
// @Tags parties
// @Produce json
// @Param partyName path string true "Party name"
// @Success 200 {object} dto.PartyStatementResponse
// @Failure 404 {object} map[string]string "Party not found"
// @Router /parties/{partyName}/entries [get]
func (h *partyHandler) getPartyStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyName := c.Param("partyName")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	statement, err := h.balanceService.GetPartyStatement(c.Request.Context(), userID, partyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to get party statement", slog.String("error", err.Error()), slog.String("party", partyName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve statement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPartyStatementResponse(statement))
}

// getClosingBalance godoc
// @Summary Get a party's closing balance
// @Tags parties
// @Produce json
// @Param partyName path string true "Party name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Party not found"
// @Router /parties/{partyName}/balance [get]
func (h *partyHandler) getClosingBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyName := c.Param("partyName")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	balance, err := h.balanceService.ClosingBalance(c.Request.Context(), userID, partyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		logger.Error("Failed to compute closing balance", slog.String("error", err.Error()), slog.String("party", partyName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partyName": partyName, "closingBalance": balance})
}

// settleParty godoc
// @Summary Settle a party
// @Description Freezes the party's live entries into a new Monday Final settlement. With no live entries the latest settlement is returned unchanged.
// @Tags settlements
// @Accept json
// @Produce json
// @Param partyName path string true "Party name"
// @Param settlement body dto.SettleRequest false "Optional settlement date"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Settlement disabled or nothing to settle"
// @Failure 404 {object} map[string]string "Party not found"
// @Failure 409 {object} map[string]string "Concurrent settlement conflict"
// @Router /parties/{partyName}/settle [post]
func (h *partyHandler) settleParty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyName := c.Param("partyName")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// The body is optional; an absent or empty one settles as of now.
	req := dto.SettleRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}
	settlementDate := time.Time{}
	if req.SettlementDate != nil {
		settlementDate = *req.SettlementDate
	}

	settlement, err := h.settlementService.SettleParty(c.Request.Context(), userID, partyName, settlementDate)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Settlement conflict", slog.String("party", partyName))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to settle party in service", slog.String("error", err.Error()), slog.String("party", partyName))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle party"})
		}
		return
	}

	logger.Info("Party settled", slog.String("party", partyName), slog.String("settlement_id", settlement.SettlementID))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(settlement))
}

// listPartySettlements godoc
// @Summary List a party's settlements
// @Tags settlements
// @Produce json
// @Param partyName path string true "Party name"
// @Success 200 {array} dto.SettlementResponse
// @Router /parties/{partyName}/settlements [get]
func (h *partyHandler) listPartySettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partyName := c.Param("partyName")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	settlements, err := h.settlementService.ListSettlements(c.Request.Context(), userID, &partyName)
	if err != nil {
		logger.Error("Failed to list settlements", slog.String("error", err.Error()), slog.String("party", partyName))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list settlements"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponses(settlements))
}
