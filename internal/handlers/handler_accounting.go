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

// accountingHandler handles classification, account resolution and balance
// queries.
type accountingHandler struct {
	classifierService portssvc.ClassifierSvc
	resolverService   portssvc.ResolverSvc
	balanceService    portssvc.BalanceSvc
}

// newAccountingHandler creates a new accountingHandler.
func newAccountingHandler(classifier portssvc.ClassifierSvc, resolver portssvc.ResolverSvc, balance portssvc.BalanceSvc) *accountingHandler {
	return &accountingHandler{
		classifierService: classifier,
		resolverService:   resolver,
		balanceService:    balance,
	}
}

// registerAccountingRoutes registers classification, resolution and balance routes.
func registerAccountingRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newAccountingHandler(services.Classifier, services.Resolver, services.Balance)

	rg.GET("/classes/:classID/descendants", h.descendantClasses)
	rg.POST("/accounts/resolve", h.resolveAccount)
	rg.GET("/organizations/:organizationID/periods/:periodID/balances/:accountID", h.accountBalance)
}

func (h *accountingHandler) descendantClasses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	classID := c.Param("classID")

	classIDs, err := h.classifierService.DescendantClassIDs(c.Request.Context(), classID)
	if err != nil {
		logger.Error("Failed to walk class tree", slog.String("class_id", classID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to walk class tree"})
		return
	}
	c.JSON(http.StatusOK, dto.ClassifyResponse{RootClassID: classID, ClassIDs: classIDs})
}

func (h *accountingHandler) resolveAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResolveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	accountID, err := h.resolverService.ResolveAccount(c.Request.Context(), req.ToResolutionContext())
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotResolvable) {
			logger.Warn("No resolution rule matched", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to resolve account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve account"})
		return
	}
	c.JSON(http.StatusOK, dto.ResolveAccountResponse{AccountID: accountID})
}

func (h *accountingHandler) accountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")
	periodID := c.Param("periodID")
	accountID := c.Param("accountID")

	balance, err := h.balanceService.AccountBalance(c.Request.Context(), organizationID, periodID, accountID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to compute account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}
