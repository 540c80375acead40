package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/llm"
)

// ErrAdvisorUnavailable cubre cualquier falla del servicio externo:
// red, timeout o cuota. El caller muestra un mensaje localizado y
// jamás una cifra inventada.
var ErrAdvisorUnavailable = errors.New("advisor unavailable")

const maxHistoryMessages = 10

// AdvisorService responde consultas en lenguaje natural sobre los
// datos del propio usuario, vía el colaborador de generación de texto.
type AdvisorService struct {
	logger  *zap.Logger
	client  llm.Client
	prompts AdvisorPromptBuilder
	timeout time.Duration
}

func NewAdvisorService(logger *zap.Logger, client llm.Client, timeout time.Duration) *AdvisorService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AdvisorService{
		logger:  logger,
		client:  client,
		timeout: timeout,
	}
}

// Ask arma el resumen financiero del subconjunto visible y consulta al
// generador bajo un timeout explícito.
func (s *AdvisorService) Ask(ctx context.Context, user domain.User, query string, txs []domain.Transaction, filtered bool, history []llm.Message) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrAdvisorUnavailable
	}
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	data := BuildAdvisorData(txs, filtered, user.Currency)
	prompt := s.prompts.BuildPrompt(query, data, user.Language, history)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.client.Generate(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("advisor generate failed", zap.Error(err))
		}
		return "", ErrAdvisorUnavailable
	}
	return answer, nil
}

var advisorErrorMessages = map[string]string{
	"en": "The assistant is unavailable right now. Please try again in a moment.",
	"ru": "Ассистент сейчас недоступен. Попробуйте ещё раз через минуту.",
	"ky": "Жардамчы азыр жеткиликсиз. Бир аздан кийин кайра аракет кылыңыз.",
}

// AdvisorErrorMessage devuelve el mensaje de falla localizado.
func AdvisorErrorMessage(language string) string {
	if msg, ok := advisorErrorMessages[language]; ok {
		return msg
	}
	return advisorErrorMessages["en"]
}
