package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bazar-api/internal/domain"
)

// Filter describe los predicados componibles sobre una colección.
// Exactamente un modo de período está activo: rango explícito si
// Start y End vienen, si no corte relativo LastDays, si no todo.
type Filter struct {
	Search   string
	Type     string
	Start    *time.Time
	End      *time.Time
	LastDays int
}

// FilterTransactions aplica los predicados de forma independiente.
// La búsqueda libre es subcadena sin distinguir mayúsculas contra
// descripción y categoría; el rango de fechas es inclusivo.
func FilterTransactions(txs []domain.Transaction, f Filter, now time.Time) []domain.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var cutoff time.Time
	useRange := f.Start != nil && f.End != nil
	if !useRange && f.LastDays > 0 {
		cutoff = now.AddDate(0, 0, -f.LastDays)
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if useRange {
			if tx.Timestamp.Before(*f.Start) || tx.Timestamp.After(*f.End) {
				continue
			}
		} else if !cutoff.IsZero() && tx.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// ComputeMetrics agrega el subconjunto: totales por tipo, ganancia y
// cantidad. Sin redondeo más allá de la precisión de los montos.
func ComputeMetrics(txs []domain.Transaction) domain.Metrics {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case domain.TypeIncome:
			income = income.Add(tx.Amount)
		case domain.TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}
	return domain.Metrics{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		Profit:           income.Sub(expenses),
		TaxLiability:     decimal.Zero,
		TransactionCount: len(txs),
	}
}

// MonthlySeries agrupa por clave YYYY-MM (mes con cero a la izquierda)
// y devuelve los buckets ordenados ascendentemente por clave.
func MonthlySeries(txs []domain.Transaction) []domain.MonthlyBucket {
	buckets := make(map[string]*domain.MonthlyBucket)
	for _, tx := range txs {
		key := fmt.Sprintf("%04d-%02d", tx.Timestamp.Year(), int(tx.Timestamp.Month()))
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.MonthlyBucket{
				Month:    key,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			}
			buckets[key] = bucket
		}
		switch tx.Type {
		case domain.TypeIncome:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case domain.TypeExpense:
			bucket.Expenses = bucket.Expenses.Add(tx.Amount)
		}
	}

	out := make([]domain.MonthlyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Profit = bucket.Income.Sub(bucket.Expenses)
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategoryBreakdown suma montos por categoría para el tipo dado,
// ordenado de mayor a menor (empates por nombre, para determinismo).
func CategoryBreakdown(txs []domain.Transaction, txType string) []domain.CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != txType {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	out := make([]domain.CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		out = append(out, domain.CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategories trunca el ranking a las n primeras.
func TopCategories(breakdown []domain.CategoryTotal, n int) []domain.CategoryTotal {
	if n <= 0 || n >= len(breakdown) {
		return breakdown
	}
	return breakdown[:n]
}
