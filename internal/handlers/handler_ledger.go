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

// ledgerHandler handles HTTP requests for transaction creation, posting and
// verification.
type ledgerHandler struct {
	postingService portssvc.PostingSvc
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(postingService portssvc.PostingSvc) *ledgerHandler {
	return &ledgerHandler{postingService: postingService}
}

// registerLedgerRoutes registers routes related to ledger transactions.
func registerLedgerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newLedgerHandler(services.Posting)

	rg.POST("/postings", h.createAndPost)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.POST("/:transactionID/post", h.postTransaction)
		transactions.GET("/:transactionID/verify", h.verifyTransaction)
		transactions.GET("/:transactionID/trial-balance", h.trialBalance)
	}
}

func (h *ledgerHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := requestUserID(c)
	trans, err := h.postingService.CreateTransaction(c.Request.Context(), req.ToDomainTransaction(), req.ToDomainEntries(), userID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", trans.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(trans))
}

func (h *ledgerHandler) createAndPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAndPost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID := requestUserID(c)
	result, err := h.postingService.CreateAndPost(c.Request.Context(), req.ToDomainTransaction(), req.ToDomainEntries(), userID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to create and post transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPostingResultResponse(result))
}

func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	trans, err := h.postingService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(trans))
}

func (h *ledgerHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	userID := requestUserID(c)

	result, err := h.postingService.PostTransaction(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to post transaction")
		return
	}

	status := http.StatusOK
	if !result.Posted && result.ErrorJournalID == nil {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, dto.ToPostingResultResponse(result))
}

func (h *ledgerHandler) verifyTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	result, err := h.postingService.VerifyTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to verify transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResultResponse(result))
}

func (h *ledgerHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	result, err := h.postingService.ValidateTrialBalance(c.Request.Context(), transactionID)
	if err != nil {
		respondLedgerError(c, logger, err, "Failed to validate trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceCheckResponse(result))
}

// respondLedgerError maps service errors onto HTTP statuses.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrStructuralData):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAlreadyPosted):
		logger.Warn("Transaction already posted", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccountingDisabled):
		logger.Warn("Accounting disabled for organization", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
