package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Períodos y tipos de reporte soportados.
const (
	PeriodDay     = "day"
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"

	ReportProfitLoss       = "profit-loss"
	ReportCashFlow         = "cash-flow"
	ReportCategoryAnalysis = "category-analysis"
)

// CategoryAnalysis son los rankings top-N de un reporte.
type CategoryAnalysis struct {
	TopIncomeCategories  []CategoryTotal `json:"top_income_categories"`
	TopExpenseCategories []CategoryTotal `json:"top_expense_categories"`
}

// Report es el documento estructurado que se exporta.
// Es una instantánea, no un documento vivo.
type Report struct {
	Period            string            `json:"period"`
	ReportType        string            `json:"report_type"`
	GeneratedAt       time.Time         `json:"generated_at"`
	TotalIncome       decimal.Decimal   `json:"total_income"`
	TotalExpenses     decimal.Decimal   `json:"total_expenses"`
	NetProfit         decimal.Decimal   `json:"net_profit"`
	ProfitMargin      decimal.Decimal   `json:"profit_margin"`
	TransactionsCount int               `json:"transactions_count"`
	CashFlow          []MonthlyBucket   `json:"cash_flow,omitempty"`
	CategoryAnalysis  *CategoryAnalysis `json:"category_analysis,omitempty"`
}
