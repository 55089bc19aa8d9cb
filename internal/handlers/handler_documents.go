package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// documentHandler handles receipts, expenses and advances. Each create both
// persists the document and posts its journal entry.
type documentHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newDocumentHandler(ps portssvc.PostingSvcFacade) *documentHandler {
	return &documentHandler{postingService: ps}
}

// registerDocumentRoutes registers receipt, expense and advance routes.
func registerDocumentRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newDocumentHandler(postingService)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.createReceipt)
		receipts.GET("/:id", h.getReceipt)
		receipts.POST("/:id/post", h.postReceipt)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id/post", h.postExpense)
	}

	advances := rg.Group("/advances")
	{
		advances.POST("", h.createAdvance)
		advances.GET("/:id", h.getAdvance)
		advances.POST("/:id/post", h.postAdvance)
	}
}

func (h *documentHandler) createReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to record receipt", slog.Int64("student_id", req.StudentID))

	receipt, err := h.postingService.CreateReceipt(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record receipt")
		return
	}

	logger.Info("Receipt recorded", slog.Int64("receipt_id", receipt.ID), slog.String("number", receipt.ReceiptNumber))
	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

func (h *documentHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.postingService.GetReceiptByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve receipt")
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(receipt))
}

func (h *documentHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	expense, err := h.postingService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record expense")
		return
	}

	logger.Info("Expense recorded", slog.Int64("expense_id", expense.ID), slog.String("reference", expense.Reference))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

func (h *documentHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	expense, err := h.postingService.GetExpenseByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *documentHandler) createAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAdvance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	advance, err := h.postingService.CreateAdvance(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record advance")
		return
	}

	logger.Info("Advance handed out", slog.Int64("advance_id", advance.ID), slog.String("reference", advance.Reference))
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}

// postReceipt retries the journal posting for a receipt saved without one.
func (h *documentHandler) postReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostReceipt(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post receipt")
		return
	}

	logger.Info("Receipt posted", slog.Int64("receipt_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// postExpense retries the journal posting for an expense saved without one.
func (h *documentHandler) postExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostExpense(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post expense")
		return
	}

	logger.Info("Expense posted", slog.Int64("expense_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// postAdvance retries the journal posting for an advance saved without one.
func (h *documentHandler) postAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.postingService.PostAdvance(c.Request.Context(), id, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post advance")
		return
	}

	logger.Info("Advance posted", slog.Int64("advance_id", id), slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *documentHandler) getAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	advance, err := h.postingService.GetAdvanceByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve advance")
		return
	}

	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}
