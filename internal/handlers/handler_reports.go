package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/middleware"
)

// reportHandler serves the standard financial statements.
type reportHandler struct {
	statementService portssvc.StatementSvc
}

// newReportHandler creates a new reportHandler.
func newReportHandler(statementService portssvc.StatementSvc) *reportHandler {
	return &reportHandler{statementService: statementService}
}

// registerReportRoutes registers the statement generation routes.
func registerReportRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newReportHandler(services.Statements)

	reports := rg.Group("/organizations/:organizationID")
	{
		reports.GET("/periods/:periodID/reports/trial-balance", h.trialBalance)
		reports.GET("/periods/:periodID/reports/income-statement", h.incomeStatement)
		reports.GET("/periods/:periodID/reports/balance-sheet", h.balanceSheet)
		reports.GET("/periods/:periodID/reports/cash-flow", h.cashFlow)
		reports.GET("/reports/comparative-balance-sheet", h.comparativeBalanceSheet)
	}
}

func (h *reportHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.statementService.TrialBalance(c.Request.Context(), c.Param("organizationID"), c.Param("periodID"))
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportHandler) incomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.statementService.IncomeStatement(c.Request.Context(), c.Param("organizationID"), c.Param("periodID"))
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to generate income statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.statementService.BalanceSheet(c.Request.Context(), c.Param("organizationID"), c.Param("periodID"))
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportHandler) cashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	report, err := h.statementService.CashFlowStatement(c.Request.Context(), c.Param("organizationID"), c.Param("periodID"))
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to generate cash flow statement")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportHandler) comparativeBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	period1 := c.Query("period1")
	period2 := c.Query("period2")
	if period1 == "" || period2 == "" {
		logger.Warn("Missing period query parameters for comparative balance sheet",
			slog.String("period1", period1), slog.String("period2", period2))
		c.JSON(http.StatusBadRequest, gin.H{"error": "period1 and period2 query parameters are required"})
		return
	}

	report, err := h.statementService.ComparativeBalanceSheet(c.Request.Context(), c.Param("organizationID"), period1, period2)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to generate comparative balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}
