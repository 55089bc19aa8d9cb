package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alnahda/institute-ledger/internal/core/domain"
)

// CreateCostCenterRequest defines the data needed to open a cost center.
type CreateCostCenterRequest struct {
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	NameAr         string          `json:"nameAr"`
	Description    string          `json:"description"`
	CostCenterType string          `json:"costCenterType" binding:"required,oneof=ACADEMIC ADMINISTRATIVE OPERATIONAL SUPPORT"`
	ManagerName    string          `json:"managerName"`
	ManagerPhone   string          `json:"managerPhone"`
	AnnualBudget   decimal.Decimal `json:"annualBudget"`
	MonthlyBudget  decimal.Decimal `json:"monthlyBudget"`
}

// SummaryParams bounds the cost-center report window. Both ends optional.
type SummaryParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// CostCenterResponse defines the data returned for a cost center.
type CostCenterResponse struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	NameAr         string          `json:"nameAr,omitempty"`
	CostCenterType string          `json:"costCenterType"`
	IsActive       bool            `json:"isActive"`
	ManagerName    string          `json:"managerName,omitempty"`
	AnnualBudget   decimal.Decimal `json:"annualBudget"`
	MonthlyBudget  decimal.Decimal `json:"monthlyBudget"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToCostCenterResponse converts a domain.CostCenter to its DTO.
func ToCostCenterResponse(cc *domain.CostCenter) CostCenterResponse {
	return CostCenterResponse{
		ID:             cc.ID,
		Code:           cc.Code,
		Name:           cc.Name,
		NameAr:         cc.NameAr,
		CostCenterType: string(cc.CostCenterType),
		IsActive:       cc.IsActive,
		ManagerName:    cc.ManagerName,
		AnnualBudget:   cc.AnnualBudget,
		MonthlyBudget:  cc.MonthlyBudget,
		CreatedAt:      cc.CreatedAt,
	}
}

// ToListCostCenterResponse converts a slice of cost centers to DTOs.
func ToListCostCenterResponse(centers []domain.CostCenter) []CostCenterResponse {
	res := make([]CostCenterResponse, len(centers))
	for i, cc := range centers {
		res[i] = ToCostCenterResponse(&cc)
	}
	return res
}
