package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostCenterType classifies a cost center for departmental reporting.
type CostCenterType string

const (
	CostCenterAcademic       CostCenterType = "ACADEMIC"
	CostCenterAdministrative CostCenterType = "ADMINISTRATIVE"
	CostCenterOperational    CostCenterType = "OPERATIONAL"
	CostCenterSupport        CostCenterType = "SUPPORT"
)

// CostCenter is an allocation dimension tagging transactions and courses.
// Deleting one never orphans history: the transaction tag is set null.
type CostCenter struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	NameAr         string          `json:"nameAr"`
	Description    string          `json:"description"`
	CostCenterType CostCenterType  `json:"costCenterType"`
	IsActive       bool            `json:"isActive"`
	ManagerName    string          `json:"managerName"`
	ManagerPhone   string          `json:"managerPhone"`
	AnnualBudget   decimal.Decimal `json:"annualBudget"`
	MonthlyBudget  decimal.Decimal `json:"monthlyBudget"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// CashAccountCodes is the allow-list of "cash-like" account codes used for
// cost-center cash flow figures.
var CashAccountCodes = []string{"121", "1120"}

// CostCenterSummary is the derived departmental report for a date window.
// Figures are recomputed from the transaction stream on every call.
type CostCenterSummary struct {
	CostCenterID    int64           `json:"costCenterID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	From            *time.Time      `json:"from,omitempty"`
	To              *time.Time      `json:"to,omitempty"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	TeacherSalaries decimal.Decimal `json:"teacherSalaries"`
	OtherExpenses   decimal.Decimal `json:"otherExpenses"` // May be negative; data-quality signal
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	CashInflow      decimal.Decimal `json:"cashInflow"`
	CashOutflow     decimal.Decimal `json:"cashOutflow"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	ClosingBalance  decimal.Decimal `json:"closingBalance"`
}
