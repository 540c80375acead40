package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
	"bazar-api/internal/repository"
)

func newLedger() *LedgerService {
	return NewLedgerService(zap.NewNop(), repository.NewKVTransactionRepository(kv.NewMemoryStore()))
}

func TestLedgerAddNewestFirst(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	first, err := ledger.Add(ctx, "u1", domain.Transaction{
		Amount:   decimal.NewFromInt(100),
		Type:     domain.TypeIncome,
		Category: "sales",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	second, err := ledger.Add(ctx, "u1", domain.Transaction{
		Amount:   decimal.NewFromInt(40),
		Type:     domain.TypeExpense,
		Category: "rent",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("ids not unique: %q vs %q", first.ID, second.ID)
	}
	if first.UserID != "u1" {
		t.Fatalf("owner = %q, want u1", first.UserID)
	}

	list, err := ledger.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Fatal("list is not newest-first")
	}
}

func TestLedgerAddRejectsInvalid(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	negative := domain.Transaction{Amount: decimal.NewFromInt(-5), Type: domain.TypeIncome}
	if _, err := ledger.Add(ctx, "u1", negative); !errors.Is(err, ErrInvalidTransaction) {
		t.Fatalf("negative amount: error = %v, want ErrInvalidTransaction", err)
	}
	badType := domain.Transaction{Amount: decimal.NewFromInt(5), Type: "transfer"}
	if _, err := ledger.Add(ctx, "u1", badType); !errors.Is(err, ErrInvalidTransaction) {
		t.Fatalf("bad type: error = %v, want ErrInvalidTransaction", err)
	}
}

func TestLedgerUpdate(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	tx, err := ledger.Add(ctx, "u1", domain.Transaction{
		Amount:      decimal.NewFromInt(100),
		Type:        domain.TypeIncome,
		Category:    "sales",
		Description: "initial",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	desc := "corrected"
	amount := decimal.NewFromInt(150)
	updated, err := ledger.Update(ctx, "u1", tx.ID, domain.TransactionUpdate{
		Description: &desc,
		Amount:      &amount,
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Description != "corrected" || !updated.Amount.Equal(amount) {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.Category != "sales" {
		t.Fatalf("untouched field changed: category = %q", updated.Category)
	}

	if _, err := ledger.Update(ctx, "u1", "missing-id", domain.TransactionUpdate{Description: &desc}); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("Update() missing id error = %v, want ErrTransactionNotFound", err)
	}
}

func TestLedgerDeleteIdempotent(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	tx, err := ledger.Add(ctx, "u1", domain.Transaction{
		Amount: decimal.NewFromInt(10),
		Type:   domain.TypeExpense,
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	removed, err := ledger.Delete(ctx, "u1", tx.ID)
	if err != nil || !removed {
		t.Fatalf("Delete() = %v, %v; want true, nil", removed, err)
	}
	removed, err = ledger.Delete(ctx, "u1", tx.ID)
	if err != nil || removed {
		t.Fatalf("second Delete() = %v, %v; want false, nil", removed, err)
	}

	list, err := ledger.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("len = %d, want 0", len(list))
	}
}

func TestLedgerIsolatedPerUser(t *testing.T) {
	ledger := newLedger()
	ctx := context.Background()

	if _, err := ledger.Add(ctx, "u1", domain.Transaction{Amount: decimal.NewFromInt(10), Type: domain.TypeIncome}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	list, err := ledger.List(ctx, "u2")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("u2 sees %d transactions, want 0", len(list))
	}
}
