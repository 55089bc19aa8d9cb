package services

import (
	"context"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	"github.com/alnahda/institute-ledger/internal/dto"
)

// CostCenterSvcFacade manages cost centers and their derived reports.
type CostCenterSvcFacade interface {
	CreateCostCenter(ctx context.Context, req dto.CreateCostCenterRequest, creatorUserID string) (*domain.CostCenter, error)
	GetCostCenterByID(ctx context.Context, id int64) (*domain.CostCenter, error)
	ListCostCenters(ctx context.Context) ([]domain.CostCenter, error)

	// GetSummary recomputes the departmental report from the posted
	// transaction stream for the given window.
	GetSummary(ctx context.Context, costCenterID int64, params dto.SummaryParams) (*domain.CostCenterSummary, error)

	// ExportSummaryExcel renders the summary as a downloadable workbook.
	ExportSummaryExcel(ctx context.Context, costCenterID int64, params dto.SummaryParams) ([]byte, string, error)
}
