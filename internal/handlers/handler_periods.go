package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finpost/glcore/internal/apperrors"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/dto"
	"github.com/finpost/glcore/internal/middleware"
)

// periodHandler handles time period closing.
type periodHandler struct {
	closingService portssvc.ClosingSvc
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(closingService portssvc.ClosingSvc) *periodHandler {
	return &periodHandler{closingService: closingService}
}

// registerPeriodRoutes registers routes related to time periods.
func registerPeriodRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newPeriodHandler(services.Closing)

	rg.POST("/periods/:periodID/close", h.closePeriod)
}

func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	var req dto.ClosePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ClosePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID := requestUserID(c)

	err := h.closingService.ClosePeriod(c.Request.Context(), req.OrganizationID, periodID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Period not found", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrChildPeriodStillOpen),
			errors.Is(err, apperrors.ErrNoClosableAnchor),
			errors.Is(err, apperrors.ErrDivergentClosingBalance):
			logger.Warn("Period cannot be closed", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to close period", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close period"})
		}
		return
	}

	logger.Info("Period closed", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, gin.H{"periodID": periodID, "closed": true})
}
