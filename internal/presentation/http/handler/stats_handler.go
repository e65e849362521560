package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
)

// StatsHandler exposes the transaction log and aggregates to the admin panel
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Stats handles fetching transaction aggregates
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stats retrieved successfully", stats)
}

// ListTransactions handles listing transaction log rows
func (h *StatsHandler) ListTransactions(c *gin.Context) {
	params := &repository.TransactionFilterParams{
		Pagination: paginationFromQuery(c),
		Status:     c.Query("status"),
	}
	if processedStr := c.Query("processed"); processedStr != "" {
		if processed, err := strconv.ParseBool(processedStr); err == nil {
			params.Processed = &processed
		}
	}

	result, err := h.statsService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// GetOrderTransaction handles fetching the transaction log row for one order
func (h *StatsHandler) GetOrderTransaction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	tx, err := h.statsService.GetOrderTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", tx)
}
