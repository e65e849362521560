package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiramedia/checkout-api/internal/application/service"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/request"
	"github.com/kiramedia/checkout-api/internal/presentation/http/dto/response"
	"github.com/kiramedia/checkout-api/pkg/apperror"
)

// VoucherHandler handles voucher validation and admin CRUD
type VoucherHandler struct {
	voucherService *service.VoucherService
}

// NewVoucherHandler creates a new voucher handler
func NewVoucherHandler(voucherService *service.VoucherService) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherService}
}

// Validate checks a voucher code against a subtotal. Public: the order form
// calls this as the customer types.
func (h *VoucherHandler) Validate(c *gin.Context) {
	var req request.ValidateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	discount, voucher, err := h.voucherService.ApplyCode(c.Request.Context(), req.Code, req.Subtotal, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	if voucher == nil {
		response.Error(c, apperror.ErrVoucherNotFound)
		return
	}

	response.OK(c, "Voucher is valid", gin.H{
		"code":     voucher.Code,
		"type":     voucher.Type,
		"discount": discount,
	})
}

// Create handles creating a voucher from the admin panel
func (h *VoucherHandler) Create(c *gin.Context) {
	var req request.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	voucherType := enum.VoucherTypePercent
	if req.Type == "nominal" {
		voucherType = enum.VoucherTypeNominal
	}

	voucher := &entity.Voucher{
		Code:       req.Code,
		Type:       voucherType,
		Value:      req.Value,
		MinSpend:   req.MinSpend,
		MaxUses:    req.MaxUses,
		ValidUntil: req.ValidUntil,
		IsActive:   true,
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := h.voucherService.CreateVoucher(c.Request.Context(), voucher); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Voucher created", voucher)
}

// Update handles updating a voucher's mutable fields
func (h *VoucherHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	var req request.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Value != nil {
		voucher.Value = *req.Value
	}
	if req.MinSpend != nil {
		voucher.MinSpend = req.MinSpend
	}
	if req.MaxUses != nil {
		voucher.MaxUses = req.MaxUses
	}
	if req.ValidUntil != nil {
		voucher.ValidUntil = req.ValidUntil
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := h.voucherService.UpdateVoucher(c.Request.Context(), voucher); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher updated", voucher)
}

// Get handles fetching a single voucher
func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	voucher, err := h.voucherService.GetVoucher(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Voucher retrieved successfully", voucher)
}

// List handles listing vouchers
func (h *VoucherHandler) List(c *gin.Context) {
	result, err := h.voucherService.ListVouchers(c.Request.Context(), paginationFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Vouchers retrieved successfully", result)
}

// Delete handles removing a voucher
func (h *VoucherHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid voucher ID")
		return
	}

	if err := h.voucherService.DeleteVoucher(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
