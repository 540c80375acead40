package service

import (
	"fmt"
	"strings"

	"bazar-api/internal/domain"
	"bazar-api/internal/llm"
)

const recentTransactionCount = 10

// AdvisorData es el payload estructurado que acompaña cada consulta:
// cifras exactas del negocio, nunca estimaciones.
type AdvisorData struct {
	DataContext          string
	Metrics              domain.Metrics
	TopIncomeCategories  []domain.CategoryTotal
	TopExpenseCategories []domain.CategoryTotal
	RecentTransactions   []domain.Transaction
	Monthly              []domain.MonthlyBucket
	Currency             string
}

// BuildAdvisorData deriva el resumen financiero del subconjunto visible.
func BuildAdvisorData(txs []domain.Transaction, filtered bool, currency string) AdvisorData {
	dataContext := "Analyzing all transactions"
	if filtered {
		dataContext = fmt.Sprintf("Analyzing %d visible transactions (filtered view)", len(txs))
	}
	recent := txs
	if len(recent) > recentTransactionCount {
		recent = recent[:recentTransactionCount]
	}
	return AdvisorData{
		DataContext:          dataContext,
		Metrics:              ComputeMetrics(txs),
		TopIncomeCategories:  TopCategories(CategoryBreakdown(txs, domain.TypeIncome), topCategoryCount),
		TopExpenseCategories: TopCategories(CategoryBreakdown(txs, domain.TypeExpense), topCategoryCount),
		RecentTransactions:   recent,
		Monthly:              MonthlySeries(txs),
		Currency:             currency,
	}
}

var advisorLanguageInstructions = map[string]string{
	"en": "Respond in English in a natural, conversational tone. Be helpful and professional. Do NOT open with greetings; answer the question directly. Use the EXACT numbers from the provided data.",
	"ru": "Отвечай на русском языке естественным, разговорным тоном. Будь полезным и профессиональным. НЕ начинай с приветствий — отвечай на вопрос напрямую. Используй ТОЧНЫЕ цифры из предоставленных данных.",
	"ky": "Кыргызча жооп бер, табигый жана достук тон менен. Пайдалуу жана кесипкөй бол. Салам айтуу менен баштаба — суроого түздөн-түз жооп бер. Берилген маалыматтагы ТАК сандарды колдон.",
}

// AdvisorPromptBuilder arma el prompt del asesor a partir del resumen
// financiero, el idioma y la transcripción reciente.
type AdvisorPromptBuilder struct{}

// BuildPrompt devuelve el prompt completo que se envía al generador.
func (AdvisorPromptBuilder) BuildPrompt(query string, data AdvisorData, language string, history []llm.Message) string {
	instructions, ok := advisorLanguageInstructions[language]
	if !ok {
		instructions = advisorLanguageInstructions["en"]
	}

	var sb strings.Builder
	sb.WriteString("You are an AI financial assistant for Bazar, a business accounting application for small businesses in Kyrgyzstan. Respond naturally and conversationally, with expertise in business finance and accounting.\n\n")
	sb.WriteString("CRITICAL: " + instructions + "\n\n")

	sb.WriteString("Conversation so far (most recent last). Acknowledge relevant prior facts when helpful, but do not repeat the history:\n")
	if transcript := formatTranscript(history); transcript != "" {
		sb.WriteString(transcript)
	} else {
		sb.WriteString("No prior conversation available.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("IMPORTANT: Use the EXACT numbers provided below. Do not make up or estimate any financial data.\n\n")
	sb.WriteString(data.DataContext + "\n\n")

	sb.WriteString("Current Business Financial Data:\n")
	sb.WriteString(fmt.Sprintf("- Total Income: %s %s\n", data.Metrics.TotalIncome, data.Currency))
	sb.WriteString(fmt.Sprintf("- Total Expenses: %s %s\n", data.Metrics.TotalExpenses, data.Currency))
	sb.WriteString(fmt.Sprintf("- Net Profit: %s %s\n", data.Metrics.Profit, data.Currency))
	sb.WriteString(fmt.Sprintf("- Number of Transactions: %d\n\n", data.Metrics.TransactionCount))

	sb.WriteString("Top Income Categories:\n")
	writeCategoryLines(&sb, data.TopIncomeCategories, data.Currency, "No income data available")
	sb.WriteString("\nTop Expense Categories:\n")
	writeCategoryLines(&sb, data.TopExpenseCategories, data.Currency, "No expense data available")

	sb.WriteString("\nRecent Transactions (Last 10):\n")
	if len(data.RecentTransactions) == 0 {
		sb.WriteString("No recent transactions\n")
	}
	for _, tx := range data.RecentTransactions {
		sb.WriteString(fmt.Sprintf("- %s: %s %s (%s) - %s\n", tx.Type, tx.Amount, data.Currency, tx.Category, tx.Description))
	}

	sb.WriteString("\nMonthly Breakdown:\n")
	if len(data.Monthly) == 0 {
		sb.WriteString("No monthly data available\n")
	}
	for _, bucket := range data.Monthly {
		sb.WriteString(fmt.Sprintf("- %s: Income %s %s, Expenses %s %s, Profit %s %s\n",
			bucket.Month, bucket.Income, data.Currency, bucket.Expenses, data.Currency, bucket.Profit, data.Currency))
	}

	sb.WriteString(fmt.Sprintf("\nUser Question: %q\n\n", query))

	sb.WriteString("Guidelines for your response:\n")
	sb.WriteString("1. Never open with a greeting; answer the question directly.\n")
	sb.WriteString("2. Reference specific numbers from the data above.\n")
	sb.WriteString("3. Give practical advice relevant to Kyrgyzstan's business environment.\n")
	sb.WriteString("4. Keep it informative but conversational (2-4 sentences typically).\n")
	sb.WriteString("5. Use the specified language consistently throughout.\n")
	sb.WriteString("6. If the data shows no transactions, say so and suggest how to get started.\n")
	sb.WriteString("7. If the user's message refers back to earlier context, briefly acknowledge it before answering.\n")

	return sb.String()
}

func writeCategoryLines(sb *strings.Builder, categories []domain.CategoryTotal, currency, empty string) {
	if len(categories) == 0 {
		sb.WriteString(empty + "\n")
		return
	}
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("- %s: %s %s\n", cat.Category, cat.Amount, currency))
	}
}

func formatTranscript(history []llm.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		role := "User"
		if msg.Role == "assistant" {
			role = "Assistant"
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", role, msg.Content))
	}
	return sb.String()
}
