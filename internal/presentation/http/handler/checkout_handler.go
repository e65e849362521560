package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/request"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
)

// CheckoutHandler handles the customer-facing checkout flow
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	orderService    *service.OrderService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, orderService *service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Begin handles submitting the order form and starting payment
func (h *CheckoutHandler) Begin(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.checkoutService.BeginCheckout(c.Request.Context(), toOrderInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Checkout started", result)
}

// Quote returns the price breakdown for the form as currently filled, without
// creating an order. The frontend calls this to preview amounts live.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orderService.PrepareOrder(c.Request.Context(), &service.OrderInput{
		Name:         "Quote",
		Phone:        "081200000000",
		ServiceLabel: req.Service,
		VoucherCode:  req.VoucherCode,
		Subtotal:     req.Subtotal,
		Fee:          req.Fee,
		ShippingCost: req.ShippingCost,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote calculated", service.Amounts{
		Subtotal:     order.Subtotal,
		Discount:     order.Discount,
		DPP:          order.DPP,
		PPN:          order.PPN,
		Fee:          order.Fee,
		ShippingCost: order.ShippingCost,
		GrandTotal:   order.GrandTotal,
		Deposit:      order.Deposit,
		Remaining:    order.Remaining,
	})
}

// Callback handles the popup outcome reported by the frontend
func (h *CheckoutHandler) Callback(c *gin.Context) {
	var req request.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := h.checkoutService.HandleCallback(c.Request.Context(), c.Param("orderNumber"), &service.CallbackInput{
		Result: req.Result,
		Status: req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Callback processed", outcome)
}

// Retry requests a fresh payment token for an unsettled order
func (h *CheckoutHandler) Retry(c *gin.Context) {
	result, err := h.checkoutService.RetryPayment(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment attempt restarted", result)
}

// Status polls the gateway and returns the reconciled order state
func (h *CheckoutHandler) Status(c *gin.Context) {
	outcome, err := h.checkoutService.PollStatus(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Status retrieved", outcome)
}

// toOrderInput maps the request body onto the service input
func toOrderInput(req *request.CheckoutRequest) *service.OrderInput {
	return &service.OrderInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Company:        req.Company,
		ServiceLabel:   req.Service,
		Scope:          req.Scope,
		DeliveryMethod: req.DeliveryMethod,
		ScheduledAt:    req.ScheduledAt,
		VoucherCode:    req.VoucherCode,
		Subtotal:       req.Subtotal,
		Fee:            req.Fee,
		ShippingCost:   req.ShippingCost,
	}
}
