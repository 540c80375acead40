package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bazar-api/internal/domain"
	"bazar-api/internal/kv"
)

func TestUserRepositoryRoundTrip(t *testing.T) {
	repo := NewKVUserRepository(kv.NewMemoryStore())
	ctx := context.Background()

	user := domain.User{
		ID:           "u1",
		BusinessName: "TechFlow Solutions",
		Email:        "demo@example.com",
		PasswordHash: "$2a$10$hash",
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if byEmail.PasswordHash != "$2a$10$hash" {
		t.Fatal("stored user lost credential field")
	}

	byID, err := repo.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if byID.Email != "demo@example.com" {
		t.Fatalf("GetByID() email = %q", byID.Email)
	}

	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !IsNotFound(err) {
		t.Fatalf("GetByEmail(ghost) error = %v, want not found", err)
	}
	if _, err := repo.GetByID(ctx, "ghost"); !IsNotFound(err) {
		t.Fatalf("GetByID(ghost) error = %v, want not found", err)
	}
}

func TestSessionRepositorySanitizes(t *testing.T) {
	repo := NewKVSessionRepository(kv.NewMemoryStore())
	ctx := context.Background()

	if err := repo.Put(ctx, domain.User{
		ID:               "u1",
		Email:            "demo@example.com",
		PasswordHash:     "$2a$10$hash",
		TwoFactorEnabled: true,
	}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.PasswordHash != "" || got.TwoFactorEnabled {
		t.Fatalf("session kept internal fields: %+v", got)
	}

	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Get(ctx, "u1"); !IsNotFound(err) {
		t.Fatalf("Get() after delete error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("second Delete() error: %v", err)
	}
}

func TestAttemptRepositoryZeroWhenAbsent(t *testing.T) {
	repo := NewKVAttemptRepository(kv.NewMemoryStore())
	ctx := context.Background()

	record, err := repo.Get(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if record.Count != 0 || !record.LastAttempt.IsZero() {
		t.Fatalf("absent record = %+v, want zero value", record)
	}

	record.Count = 3
	record.LastAttempt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.Put(ctx, "demo@example.com", record); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := repo.Get(ctx, "demo@example.com")
	if err != nil || got.Count != 3 {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	if err := repo.Clear(ctx, "demo@example.com"); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	got, _ = repo.Get(ctx, "demo@example.com")
	if got.Count != 0 {
		t.Fatalf("Get() after clear = %+v, want zero value", got)
	}
}

func TestCodeRepositoryOverwriteAndDelete(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := NewKVCodeRepository(kv.NewMemoryStore()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	first := domain.VerificationCode{Code: "111111", ExpiresAt: now.Add(5 * time.Minute)}
	if err := repo.Put(ctx, CodeTwoFactor, "demo@example.com", first); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// Una nueva emisión sobreescribe la anterior.
	second := domain.VerificationCode{Code: "222222", ExpiresAt: now.Add(5 * time.Minute)}
	if err := repo.Put(ctx, CodeTwoFactor, "demo@example.com", second); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err := repo.Get(ctx, CodeTwoFactor, "demo@example.com")
	if err != nil || got.Code != "222222" {
		t.Fatalf("Get() = %+v, %v; want overwritten code", got, err)
	}

	// Las clases de código no se pisan entre sí.
	if _, err := repo.Get(ctx, CodeEmailVerification, "demo@example.com"); !IsNotFound(err) {
		t.Fatalf("Get(other kind) error = %v, want not found", err)
	}

	if err := repo.Delete(ctx, CodeTwoFactor, "demo@example.com"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := repo.Get(ctx, CodeTwoFactor, "demo@example.com"); !IsNotFound(err) {
		t.Fatalf("Get() after delete error = %v, want not found", err)
	}
}

func TestTransactionRepositoryRoundTrip(t *testing.T) {
	repo := NewKVTransactionRepository(kv.NewMemoryStore())
	ctx := context.Background()

	empty, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("fresh collection len = %d, want 0", len(empty))
	}

	txs := []domain.Transaction{
		{ID: "t2", UserID: "u1", Amount: decimal.NewFromInt(40), Type: domain.TypeExpense},
		{ID: "t1", UserID: "u1", Amount: decimal.NewFromInt(100), Type: domain.TypeIncome},
	}
	if err := repo.Save(ctx, "u1", txs); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t2" || got[1].ID != "t1" {
		t.Fatalf("Load() = %+v, want order preserved", got)
	}
	if !got[1].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("amount = %s, want 100", got[1].Amount)
	}
}
