package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazar-api/internal/domain"
	"bazar-api/internal/service"
)

// ReportHandler mantiene dependencias para endpoints de reportes.
type ReportHandler struct {
	logger  *zap.Logger
	ledger  *service.LedgerService
	reports *service.ReportService
}

func NewReportHandler(logger *zap.Logger, ledger *service.LedgerService, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{
		logger:  logger,
		ledger:  ledger,
		reports: reports,
	}
}

var validPeriods = map[string]bool{
	domain.PeriodDay:     true,
	domain.PeriodWeek:    true,
	domain.PeriodMonth:   true,
	domain.PeriodQuarter: true,
	"year":               true,
}

var validReportTypes = map[string]bool{
	domain.ReportProfitLoss:       true,
	domain.ReportCashFlow:         true,
	domain.ReportCategoryAnalysis: true,
}

// Build maneja GET /reports?period=&type=.
func (h *ReportHandler) Build(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	period := c.DefaultQuery("period", domain.PeriodMonth)
	if !validPeriods[period] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
		return
	}
	reportType := c.DefaultQuery("type", domain.ReportProfitLoss)
	if !validReportTypes[reportType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report type"})
		return
	}

	txs, err := h.ledger.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("load transactions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load transactions"})
		return
	}

	report := h.reports.BuildReport(txs, period, reportType)
	c.JSON(http.StatusOK, gin.H{"report": report})
}
