package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/service"
)

// LedgerHandler mantiene dependencias para endpoints de transacciones
// y métricas derivadas.
type LedgerHandler struct {
	logger  *zap.Logger
	ledger  *service.LedgerService
	reports *service.ReportService
}

func NewLedgerHandler(logger *zap.Logger, ledger *service.LedgerService, reports *service.ReportService) *LedgerHandler {
	return &LedgerHandler{
		logger:  logger,
		ledger:  ledger,
		reports: reports,
	}
}

// parseFilter arma el filtro desde query params. Fechas en RFC3339.
func parseFilter(c *gin.Context) (service.Filter, error) {
	f := service.Filter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
	}
	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return service.Filter{}, fmt.Errorf("invalid start date: %w", err)
		}
		f.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return service.Filter{}, fmt.Errorf("invalid end date: %w", err)
		}
		f.End = &t
	}
	if (f.Start == nil) != (f.End == nil) {
		return service.Filter{}, fmt.Errorf("start and end must be provided together")
	}
	if raw := c.Query("last_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return service.Filter{}, fmt.Errorf("invalid last_days")
		}
		f.LastDays = n
	}
	return f, nil
}

// filteredList carga y filtra las transacciones del usuario autenticado.
func (h *LedgerHandler) filteredList(c *gin.Context) ([]domain.Transaction, bool, bool) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return nil, false, false
	}
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false, false
	}
	txs, err := h.ledger.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("load transactions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return nil, false, false
	}
	filtered := f.Search != "" || f.Type != "" || f.Start != nil || f.End != nil || f.LastDays > 0
	return service.FilterTransactions(txs, f, time.Now().UTC()), filtered, true
}

// List maneja GET /transactions.
func (h *LedgerHandler) List(c *gin.Context) {
	txs, _, ok := h.filteredList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

// Create maneja POST /transactions.
func (h *LedgerHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		Type          string          `json:"type" binding:"required"`
		Category      string          `json:"category" binding:"required"`
		PaymentMethod string          `json:"payment_method"`
		Description   string          `json:"description"`
		Timestamp     time.Time       `json:"timestamp"`
		TaxRelevant   bool            `json:"tax_relevant"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tx, err := h.ledger.Add(c.Request.Context(), claims.UserID, domain.Transaction{
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      service.SanitizeText(req.Category, 100),
		PaymentMethod: service.SanitizeText(req.PaymentMethod, 50),
		Description:   service.SanitizeText(req.Description, 500),
		Timestamp:     req.Timestamp,
		TaxRelevant:   req.TaxRelevant,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransaction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
			return
		}
		h.logger.Error("create transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create transaction"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// Update maneja PATCH /transactions/:id.
func (h *LedgerHandler) Update(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req domain.TransactionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Category != nil {
		clean := service.SanitizeText(*req.Category, 100)
		req.Category = &clean
	}
	if req.Description != nil {
		clean := service.SanitizeText(*req.Description, 500)
		req.Description = &clean
	}

	tx, err := h.ledger.Update(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, service.ErrInvalidTransaction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction"})
		default:
			h.logger.Error("update transaction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update transaction"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

// Delete maneja DELETE /transactions/:id. Es idempotente.
func (h *LedgerHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	removed, err := h.ledger.Delete(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		h.logger.Error("delete transaction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete transaction"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}

// ExportCSV maneja GET /transactions/export: descarga la vista
// filtrada como CSV.
func (h *LedgerHandler) ExportCSV(c *gin.Context) {
	txs, _, ok := h.filteredList(c)
	if !ok {
		return
	}
	data, err := h.reports.ExportCSV(txs)
	if err != nil {
		h.logger.Error("export csv failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export"})
		return
	}
	filename := fmt.Sprintf("transactions-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// Metrics maneja GET /metrics sobre la vista filtrada.
func (h *LedgerHandler) Metrics(c *gin.Context) {
	txs, _, ok := h.filteredList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": service.ComputeMetrics(txs)})
}

// Monthly maneja GET /metrics/monthly sobre la vista filtrada.
func (h *LedgerHandler) Monthly(c *gin.Context) {
	txs, _, ok := h.filteredList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly": service.MonthlySeries(txs)})
}

// Categories maneja GET /metrics/categories: ranking por categoría
// del tipo pedido (income por defecto).
func (h *LedgerHandler) Categories(c *gin.Context) {
	txType := c.DefaultQuery("type", domain.TypeIncome)
	if txType != domain.TypeIncome && txType != domain.TypeExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be income or expense"})
		return
	}
	txs, _, ok := h.filteredList(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": service.CategoryBreakdown(txs, txType)})
}

// Catalog maneja GET /categories: el catálogo localizado, por el
// idioma del query param o el del usuario autenticado.
func (h *LedgerHandler) Catalog(c *gin.Context) {
	language := c.Query("language")
	if language == "" {
		if claims, ok := GetAuthClaims(c); ok {
			language = claims.Language
		}
	}
	c.JSON(http.StatusOK, gin.H{"categories": domain.Categories(language)})
}
