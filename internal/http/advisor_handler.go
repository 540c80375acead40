package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazar-api/internal/llm"
	"bazar-api/internal/service"
)

// AdvisorHandler mantiene dependencias para el endpoint del asistente.
type AdvisorHandler struct {
	logger  *zap.Logger
	auth    *service.AuthService
	ledger  *service.LedgerService
	advisor *service.AdvisorService
}

func NewAdvisorHandler(logger *zap.Logger, auth *service.AuthService, ledger *service.LedgerService, advisor *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		logger:  logger,
		auth:    auth,
		ledger:  ledger,
		advisor: advisor,
	}
}

// Ask maneja POST /advisor: responde sobre la vista filtrada del
// usuario. El filtro llega por query params, igual que /transactions.
func (h *AdvisorHandler) Ask(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Query   string        `json:"query" binding:"required"`
		History []llm.Message `json:"history"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.auth.CurrentSession(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
			return
		}
		h.logger.Error("load session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}

	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txs, err := h.ledger.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("load transactions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return
	}
	filtered := f.Search != "" || f.Type != "" || f.Start != nil || f.End != nil || f.LastDays > 0
	visible := service.FilterTransactions(txs, f, time.Now().UTC())

	answer, err := h.advisor.Ask(c.Request.Context(), user, req.Query, visible, filtered, req.History)
	if err != nil {
		if errors.Is(err, service.ErrAdvisorUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": service.AdvisorErrorMessage(user.Language)})
			return
		}
		h.logger.Error("advisor ask failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not answer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
