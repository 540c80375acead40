package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/llm"
)

func advisorUser() domain.User {
	return domain.User{
		ID:       "u1",
		Email:    "demo@example.com",
		Language: "en",
		Currency: "KGS",
	}
}

func TestAdvisorAskUsesPromptWithExactNumbers(t *testing.T) {
	mock := &llm.MockClient{Response: "You earned 150 KGS."}
	svc := NewAdvisorService(zap.NewNop(), mock, time.Second)

	now := time.Now()
	txs := []domain.Transaction{
		tx(domain.TypeIncome, 150, "sales", "Website project", now),
		tx(domain.TypeExpense, 40, "rent", "Office rent", now),
	}

	answer, err := svc.Ask(context.Background(), advisorUser(), "How is my business doing?", txs, false, nil)
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if answer != "You earned 150 KGS." {
		t.Fatalf("answer = %q", answer)
	}

	if len(mock.LastMsgs) != 1 || mock.LastMsgs[0].Role != "user" {
		t.Fatalf("messages = %+v, want one user message", mock.LastMsgs)
	}
	prompt := mock.LastMsgs[0].Content
	for _, want := range []string{
		"Analyzing all transactions",
		"Total Income: 150 KGS",
		"Total Expenses: 40 KGS",
		"Net Profit: 110 KGS",
		"Website project",
		`User Question: "How is my business doing?"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestAdvisorAskFilteredContext(t *testing.T) {
	mock := &llm.MockClient{Response: "ok"}
	svc := NewAdvisorService(zap.NewNop(), mock, time.Second)

	txs := []domain.Transaction{tx(domain.TypeIncome, 150, "sales", "", time.Now())}
	if _, err := svc.Ask(context.Background(), advisorUser(), "total?", txs, true, nil); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	if !strings.Contains(mock.LastMsgs[0].Content, "Analyzing 1 visible transactions (filtered view)") {
		t.Fatal("prompt missing filtered-view context")
	}
}

func TestAdvisorAskHistoryTruncated(t *testing.T) {
	mock := &llm.MockClient{Response: "ok"}
	svc := NewAdvisorService(zap.NewNop(), mock, time.Second)

	history := make([]llm.Message, 0, 15)
	for i := 0; i < 15; i++ {
		history = append(history, llm.Message{Role: "user", Content: "msg-" + string(rune('a'+i))})
	}
	if _, err := svc.Ask(context.Background(), advisorUser(), "hello", nil, false, history); err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	prompt := mock.LastMsgs[0].Content
	if strings.Contains(prompt, "msg-a") {
		t.Fatal("prompt contains message beyond the history window")
	}
	if !strings.Contains(prompt, "msg-o") {
		t.Fatal("prompt missing most recent history message")
	}
}

func TestAdvisorAskFailures(t *testing.T) {
	svc := NewAdvisorService(zap.NewNop(), &llm.MockClient{Err: errors.New("boom")}, time.Second)
	if _, err := svc.Ask(context.Background(), advisorUser(), "hello", nil, false, nil); !errors.Is(err, ErrAdvisorUnavailable) {
		t.Fatalf("client error: got %v, want ErrAdvisorUnavailable", err)
	}

	svc = NewAdvisorService(zap.NewNop(), &llm.MockClient{Response: "ok"}, time.Second)
	if _, err := svc.Ask(context.Background(), advisorUser(), "   ", nil, false, nil); !errors.Is(err, ErrAdvisorUnavailable) {
		t.Fatalf("blank query: got %v, want ErrAdvisorUnavailable", err)
	}
}

func TestAdvisorErrorMessageLocalized(t *testing.T) {
	if msg := AdvisorErrorMessage("ru"); !strings.Contains(msg, "Ассистент") {
		t.Fatalf("ru message = %q", msg)
	}
	if AdvisorErrorMessage("unknown") != AdvisorErrorMessage("en") {
		t.Fatal("unknown language should fall back to english")
	}
}

func TestBuildPromptLanguageInstructions(t *testing.T) {
	builder := AdvisorPromptBuilder{}
	data := BuildAdvisorData(nil, false, "KGS")

	tests := []struct {
		language string
		want     string
	}{
		{"en", "Respond in English"},
		{"ru", "Отвечай на русском"},
		{"ky", "Кыргызча жооп бер"},
		{"de", "Respond in English"},
	}
	for _, tt := range tests {
		prompt := builder.BuildPrompt("q", data, tt.language, nil)
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("language %q: prompt missing %q", tt.language, tt.want)
		}
	}
}

func TestBuildPromptEmptyData(t *testing.T) {
	builder := AdvisorPromptBuilder{}
	prompt := builder.BuildPrompt("q", BuildAdvisorData(nil, false, "KGS"), "en", nil)

	for _, want := range []string{
		"No income data available",
		"No expense data available",
		"No recent transactions",
		"No monthly data available",
		"No prior conversation available",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildAdvisorDataRecentCap(t *testing.T) {
	now := time.Now()
	txs := make([]domain.Transaction, 0, 14)
	for i := 0; i < 14; i++ {
		txs = append(txs, tx(domain.TypeIncome, int64(i+1), "sales", "", now))
	}

	data := BuildAdvisorData(txs, false, "KGS")
	if len(data.RecentTransactions) != 10 {
		t.Fatalf("recent = %d, want 10", len(data.RecentTransactions))
	}
	// La lista viene más-nueva-primero; el recorte conserva la cabeza.
	if !data.RecentTransactions[0].Amount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("first recent = %s, want head of the list", data.RecentTransactions[0].Amount)
	}
	if data.Metrics.TransactionCount != 14 {
		t.Fatalf("metrics count = %d, want full subset", data.Metrics.TransactionCount)
	}
}
