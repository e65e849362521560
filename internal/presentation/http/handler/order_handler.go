package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/request"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
)

// OrderHandler handles order-related HTTP requests for the admin panel
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders with filters
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{
		Pagination: paginationFromQuery(c),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if statusStr := c.Query("order_status"); statusStr != "" {
		if status, ok := enum.ParseOrderStatus(statusStr); ok {
			params.OrderStatus = &status
		}
	}
	if statusStr := c.Query("payment_status"); statusStr != "" {
		if status, ok := enum.ParsePaymentStatus(statusStr); ok {
			params.PaymentStatus = &status
		}
	}
	if serviceStr := c.Query("service"); serviceStr != "" {
		if serviceType, ok := enum.ParseServiceType(serviceStr); ok {
			params.ServiceType = &serviceType
		}
	}
	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}
	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Get handles fetching a single order by id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// GetByNumber handles fetching a single order by its public order number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// UpdateStatus handles moving an order to a new fulfilment status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status, ok := enum.ParseOrderStatus(req.Status)
	if !ok {
		response.BadRequest(c, "Unknown order status")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order status updated", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", order)
}
