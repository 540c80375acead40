package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction es un movimiento del libro de un usuario.
// El monto es un decimal no negativo sin unidad menor de moneda.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
	Timestamp     time.Time       `json:"timestamp"`
	TaxRelevant   bool            `json:"tax_relevant"`
}

// TransactionUpdate describe un reemplazo parcial de campos.
// Los punteros nil dejan el campo original intacto.
type TransactionUpdate struct {
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Type          *string          `json:"type,omitempty"`
	Category      *string          `json:"category,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Timestamp     *time.Time       `json:"timestamp,omitempty"`
	TaxRelevant   *bool            `json:"tax_relevant,omitempty"`
}

// Apply mezcla los campos presentes sobre la transacción.
func (u TransactionUpdate) Apply(tx Transaction) Transaction {
	if u.Amount != nil {
		tx.Amount = *u.Amount
	}
	if u.Type != nil {
		tx.Type = *u.Type
	}
	if u.Category != nil {
		tx.Category = *u.Category
	}
	if u.PaymentMethod != nil {
		tx.PaymentMethod = *u.PaymentMethod
	}
	if u.Description != nil {
		tx.Description = *u.Description
	}
	if u.Timestamp != nil {
		tx.Timestamp = *u.Timestamp
	}
	if u.TaxRelevant != nil {
		tx.TaxRelevant = *u.TaxRelevant
	}
	return tx
}

// Metrics son los agregados derivados de un subconjunto de transacciones.
type Metrics struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Profit           decimal.Decimal `json:"profit"`
	TaxLiability     decimal.Decimal `json:"tax_liability"`
	TransactionCount int             `json:"transaction_count"`
}

// MonthlyBucket acumula ingresos y gastos de un mes YYYY-MM.
type MonthlyBucket struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// CategoryTotal es el total acumulado de una categoría.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
