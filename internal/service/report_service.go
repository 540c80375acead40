package service

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/shopspring/decimal"

	"bazar-api/internal/domain"
)

const topCategoryCount = 5

var hundred = decimal.NewFromInt(100)

// ReportService arma instantáneas exportables: el documento de reporte
// y el CSV plano de la vista filtrada.
type ReportService struct {
	now func() time.Time
}

func NewReportService() *ReportService {
	return &ReportService{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj; para tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// periodStart devuelve el inicio del período relativo.
func periodStart(now time.Time, period string) time.Time {
	switch period {
	case domain.PeriodDay:
		return now.AddDate(0, 0, -1)
	case domain.PeriodWeek:
		return now.AddDate(0, 0, -7)
	case domain.PeriodQuarter:
		return now.AddDate(0, -3, 0)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// BuildReport filtra por período, agrega totales y añade las secciones
// opcionales según el tipo de reporte.
func (s *ReportService) BuildReport(txs []domain.Transaction, period, reportType string) domain.Report {
	now := s.now()
	start := periodStart(now, period)

	inPeriod := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Timestamp.Before(start) {
			inPeriod = append(inPeriod, tx)
		}
	}

	metrics := ComputeMetrics(inPeriod)
	margin := decimal.Zero
	if metrics.TotalIncome.IsPositive() {
		margin = metrics.Profit.Div(metrics.TotalIncome).Mul(hundred).Round(1)
	}

	report := domain.Report{
		Period:            period,
		ReportType:        reportType,
		GeneratedAt:       now,
		TotalIncome:       metrics.TotalIncome,
		TotalExpenses:     metrics.TotalExpenses,
		NetProfit:         metrics.Profit,
		ProfitMargin:      margin,
		TransactionsCount: metrics.TransactionCount,
	}

	switch reportType {
	case domain.ReportCashFlow:
		report.CashFlow = MonthlySeries(inPeriod)
	case domain.ReportCategoryAnalysis:
		report.CategoryAnalysis = &domain.CategoryAnalysis{
			TopIncomeCategories:  TopCategories(CategoryBreakdown(inPeriod, domain.TypeIncome), topCategoryCount),
			TopExpenseCategories: TopCategories(CategoryBreakdown(inPeriod, domain.TypeExpense), topCategoryCount),
		}
	}
	return report
}

// ExportCSV serializa la lista filtrada tal como está:
// fecha, descripción, categoría, tipo, monto y medio de pago.
func (s *ReportService) ExportCSV(txs []domain.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Date", "Description", "Category", "Type", "Amount", "Payment Method"}); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		record := []string{
			tx.Timestamp.Format("2006-01-02 15:04"),
			tx.Description,
			tx.Category,
			tx.Type,
			tx.Amount.String(),
			tx.PaymentMethod,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
