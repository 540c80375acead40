package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bazar-api/internal/domain"
)

func fixedReportService(now time.Time) *ReportService {
	return NewReportService().WithClock(func() time.Time { return now })
}

func TestBuildReportPeriods(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TypeIncome, 100, "sales", "today", now.Add(-2*time.Hour)),
		tx(domain.TypeIncome, 50, "sales", "last week", now.AddDate(0, 0, -5)),
		tx(domain.TypeIncome, 25, "sales", "last month", now.AddDate(0, 0, -20)),
		tx(domain.TypeIncome, 10, "sales", "last quarter", now.AddDate(0, -2, 0)),
	}
	svc := fixedReportService(now)

	tests := []struct {
		period string
		want   int64
	}{
		{domain.PeriodDay, 100},
		{domain.PeriodWeek, 150},
		{domain.PeriodMonth, 175},
		{domain.PeriodQuarter, 185},
		{"year", 185},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			report := svc.BuildReport(txs, tt.period, domain.ReportProfitLoss)
			if !report.TotalIncome.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("income = %s, want %d", report.TotalIncome, tt.want)
			}
			if report.Period != tt.period {
				t.Fatalf("period = %q, want %q", report.Period, tt.period)
			}
		})
	}
}

func TestBuildReportProfitMargin(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := fixedReportService(now)

	txs := []domain.Transaction{
		tx(domain.TypeIncome, 200, "sales", "", now.Add(-time.Hour)),
		tx(domain.TypeExpense, 50, "rent", "", now.Add(-time.Hour)),
	}
	report := svc.BuildReport(txs, domain.PeriodMonth, domain.ReportProfitLoss)
	if !report.NetProfit.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("net profit = %s, want 150", report.NetProfit)
	}
	if !report.ProfitMargin.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("margin = %s, want 75", report.ProfitMargin)
	}

	// Sin ingresos el margen queda en cero, no en división por cero.
	onlyExpenses := []domain.Transaction{tx(domain.TypeExpense, 50, "rent", "", now.Add(-time.Hour))}
	report = svc.BuildReport(onlyExpenses, domain.PeriodMonth, domain.ReportProfitLoss)
	if !report.ProfitMargin.IsZero() {
		t.Fatalf("margin without income = %s, want 0", report.ProfitMargin)
	}
}

func TestBuildReportSections(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := fixedReportService(now)
	txs := []domain.Transaction{
		tx(domain.TypeIncome, 100, "sales", "", now.Add(-time.Hour)),
		tx(domain.TypeExpense, 30, "rent", "", now.Add(-time.Hour)),
	}

	plain := svc.BuildReport(txs, domain.PeriodMonth, domain.ReportProfitLoss)
	if plain.CashFlow != nil || plain.CategoryAnalysis != nil {
		t.Fatal("profit-loss report carries optional sections")
	}

	flow := svc.BuildReport(txs, domain.PeriodMonth, domain.ReportCashFlow)
	if len(flow.CashFlow) != 1 || flow.CashFlow[0].Month != "2025-06" {
		t.Fatalf("cash flow = %+v", flow.CashFlow)
	}

	analysis := svc.BuildReport(txs, domain.PeriodMonth, domain.ReportCategoryAnalysis)
	if analysis.CategoryAnalysis == nil {
		t.Fatal("category analysis section missing")
	}
	if len(analysis.CategoryAnalysis.TopIncomeCategories) != 1 || analysis.CategoryAnalysis.TopIncomeCategories[0].Category != "sales" {
		t.Fatalf("top income = %+v", analysis.CategoryAnalysis.TopIncomeCategories)
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewReportService()
	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{
			Amount:        decimal.NewFromInt(2500),
			Type:          domain.TypeIncome,
			Category:      "sales",
			PaymentMethod: "cash",
			Description:   "Кийим сатуу, \"оптом\"",
			Timestamp:     ts,
		},
	}

	data, err := svc.ExportCSV(txs)
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want header plus one row", len(lines))
	}
	if lines[0] != "Date,Description,Category,Type,Amount,Payment Method" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2025-06-01 09:30,") {
		t.Fatalf("row = %q, want formatted timestamp first", lines[1])
	}
	// Las comillas del campo deben quedar escapadas según CSV.
	if !strings.Contains(lines[1], `"Кийим сатуу, ""оптом"""`) {
		t.Fatalf("row = %q, want quoted description", lines[1])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	svc := NewReportService()
	data, err := svc.ExportCSV(nil)
	if err != nil {
		t.Fatalf("ExportCSV() error: %v", err)
	}
	if strings.TrimSpace(string(data)) != "Date,Description,Category,Type,Amount,Payment Method" {
		t.Fatalf("empty export = %q, want header only", string(data))
	}
}
