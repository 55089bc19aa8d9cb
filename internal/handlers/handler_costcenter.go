package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
)

// costCenterHandler handles cost centers and their derived reports.
type costCenterHandler struct {
	costCenterService portssvc.CostCenterSvcFacade
}

func newCostCenterHandler(cs portssvc.CostCenterSvcFacade) *costCenterHandler {
	return &costCenterHandler{costCenterService: cs}
}

// registerCostCenterRoutes registers cost center routes.
func registerCostCenterRoutes(rg *gin.RouterGroup, costCenterService portssvc.CostCenterSvcFacade) {
	h := newCostCenterHandler(costCenterService)

	centers := rg.Group("/cost-centers")
	{
		centers.POST("", h.createCostCenter)
		centers.GET("", h.listCostCenters)
		centers.GET("/:id", h.getCostCenter)
		centers.GET("/:id/summary", h.getSummary)
		centers.GET("/:id/summary/export", h.exportSummary)
	}
}

func (h *costCenterHandler) createCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCostCenter", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	cc, err := h.costCenterService.CreateCostCenter(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create cost center")
		return
	}

	logger.Info("Cost center created", slog.Int64("cost_center_id", cc.ID), slog.String("code", cc.Code))
	c.JSON(http.StatusCreated, dto.ToCostCenterResponse(cc))
}

func (h *costCenterHandler) getCostCenter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cc, err := h.costCenterService.GetCostCenterByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve cost center")
		return
	}

	c.JSON(http.StatusOK, dto.ToCostCenterResponse(cc))
}

func (h *costCenterHandler) listCostCenters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	centers, err := h.costCenterService.ListCostCenters(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cost centers")
		return
	}

	c.JSON(http.StatusOK, gin.H{"costCenters": dto.ToListCostCenterResponse(centers)})
}

func (h *costCenterHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for GetSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.costCenterService.GetSummary(c.Request.Context(), id, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *costCenterHandler) exportSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ExportSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	content, filename, err := h.costCenterService.ExportSummaryExcel(c.Request.Context(), id, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export summary")
		return
	}

	logger.Info("Summary exported", slog.Int64("cost_center_id", id), slog.String("filename", filename))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
