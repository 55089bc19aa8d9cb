package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
	"github.com/alnahda/institute-ledger/internal/dto"
	"github.com/alnahda/institute-ledger/internal/middleware"
	"github.com/alnahda/institute-ledger/internal/reports"
)

// CostCenterService manages cost centers and recomputes their departmental
// summary from the posted transaction stream on every call; nothing in the
// report is cached.
type CostCenterService struct {
	costCenterRepo portsrepo.CostCenterRepository
	schoolRepo     portsrepo.SchoolRepository
}

func NewCostCenterService(costCenterRepo portsrepo.CostCenterRepository, schoolRepo portsrepo.SchoolRepository) *CostCenterService {
	return &CostCenterService{costCenterRepo: costCenterRepo, schoolRepo: schoolRepo}
}

func (s *CostCenterService) CreateCostCenter(ctx context.Context, req dto.CreateCostCenterRequest, userID string) (*domain.CostCenter, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	cc := domain.CostCenter{
		Code:           req.Code,
		Name:           req.Name,
		NameAr:         req.NameAr,
		Description:    req.Description,
		CostCenterType: domain.CostCenterType(req.CostCenterType),
		IsActive:       true,
		ManagerName:    req.ManagerName,
		ManagerPhone:   req.ManagerPhone,
		AnnualBudget:   req.AnnualBudget,
		MonthlyBudget:  req.MonthlyBudget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	id, err := s.costCenterRepo.SaveCostCenter(ctx, cc)
	if err != nil {
		return nil, err
	}
	cc.ID = id

	logger.Info("Cost center created", slog.Int64("cost_center_id", id), slog.String("code", cc.Code))
	return &cc, nil
}

func (s *CostCenterService) GetCostCenterByID(ctx context.Context, id int64) (*domain.CostCenter, error) {
	return s.costCenterRepo.FindCostCenterByID(ctx, id)
}

func (s *CostCenterService) ListCostCenters(ctx context.Context) ([]domain.CostCenter, error) {
	centers, err := s.costCenterRepo.ListCostCenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost centers: %w", err)
	}
	if centers == nil {
		centers = []domain.CostCenter{}
	}
	return centers, nil
}

// GetSummary recomputes the departmental report for the window.
//
// Teacher salaries are allocated from course assignments, not from the
// salary entries themselves: salary legs carry no cost-center tag, so the
// assignment terms are the allocation source. OtherExpenses can therefore
// come out negative when tagged expenses lag the assignment commitments;
// the figure is reported as-is as a data-quality signal.
func (s *CostCenterService) GetSummary(ctx context.Context, costCenterID int64, params dto.SummaryParams) (*domain.CostCenterSummary, error) {
	cc, err := s.costCenterRepo.FindCostCenterByID(ctx, costCenterID)
	if err != nil {
		return nil, err
	}

	totalExpenses, err := s.costCenterRepo.ExpenseDebitTotal(ctx, costCenterID, params.From, params.To)
	if err != nil {
		return nil, err
	}

	courses, err := s.schoolRepo.ListActiveCoursesByCostCenter(ctx, costCenterID)
	if err != nil {
		return nil, err
	}
	courseIDs := make([]int64, len(courses))
	totalRevenue := decimal.Zero
	for i, course := range courses {
		courseIDs[i] = course.ID
		courseTotal, err := s.schoolRepo.EnrollmentTotal(ctx, course.ID, params.From, params.To)
		if err != nil {
			return nil, err
		}
		totalRevenue = totalRevenue.Add(courseTotal)
	}

	teacherSalaries := decimal.Zero
	if len(courseIDs) > 0 {
		assignments, err := s.schoolRepo.ListActiveAssignments(ctx, courseIDs, params.From, params.To)
		if err != nil {
			return nil, err
		}
		for _, a := range assignments {
			teacherSalaries = teacherSalaries.Add(a.TotalSalary())
		}
	}

	inflow, outflow, err := s.costCenterRepo.CashTotals(ctx, costCenterID, params.From, params.To, domain.CashAccountCodes)
	if err != nil {
		return nil, err
	}

	opening := decimal.Zero
	if params.From != nil {
		opening, err = s.costCenterRepo.NetBefore(ctx, costCenterID, *params.From)
		if err != nil {
			return nil, err
		}
	}

	return &domain.CostCenterSummary{
		CostCenterID:    cc.ID,
		Code:            cc.Code,
		Name:            cc.Name,
		From:            params.From,
		To:              params.To,
		TotalExpenses:   totalExpenses,
		TeacherSalaries: teacherSalaries,
		OtherExpenses:   totalExpenses.Sub(teacherSalaries),
		TotalRevenue:    totalRevenue,
		CashInflow:      inflow,
		CashOutflow:     outflow,
		OpeningBalance:  opening,
		ClosingBalance:  opening.Add(inflow).Sub(outflow),
	}, nil
}

// ExportSummaryExcel renders the summary as an xlsx workbook.
func (s *CostCenterService) ExportSummaryExcel(ctx context.Context, costCenterID int64, params dto.SummaryParams) ([]byte, string, error) {
	summary, err := s.GetSummary(ctx, costCenterID, params)
	if err != nil {
		return nil, "", err
	}
	data, err := reports.BuildCostCenterWorkbook(summary)
	if err != nil {
		return nil, "", fmt.Errorf("building workbook: %w", err)
	}
	filename := fmt.Sprintf("cost_center_%s_%s.xlsx", summary.Code, time.Now().Format("20060102"))
	return data, filename, nil
}
