package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiramedia/checkout-api/internal/config"
	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/pagination"
	"github.com/kiramedia/checkout-api/pkg/utils"
	"gorm.io/datatypes"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// OrderInput is the raw order form as the frontend sends it
type OrderInput struct {
	Name           string                 `json:"name"`
	Phone          string                 `json:"phone"`
	Email          string                 `json:"email"`
	Company        string                 `json:"company"`
	ServiceLabel   string                 `json:"service"`
	Scope          map[string]interface{} `json:"scope"`
	DeliveryMethod string                 `json:"delivery_method"`
	ScheduledAt    *time.Time             `json:"scheduled_at"`
	VoucherCode    string                 `json:"voucher_code"`
	Subtotal       int64                  `json:"subtotal"`
	Fee            int64                  `json:"fee"`
	ShippingCost   int64                  `json:"shipping_cost"`
}

// OrderService assembles order entities from raw form input and manages the
// order lifecycle outside of payment reconciliation
type OrderService struct {
	orderRepo      domainRepo.OrderRepository
	voucherService *VoucherService
	paymentCfg     config.PaymentConfig
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo domainRepo.OrderRepository, voucherService *VoucherService, paymentCfg config.PaymentConfig) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		voucherService: voucherService,
		paymentCfg:     paymentCfg,
	}
}

// PrepareOrder validates and normalizes the form input, resolves the voucher
// and derives all amounts. The returned order is complete but not persisted.
func (s *OrderService) PrepareOrder(ctx context.Context, input *OrderInput) (*entity.Order, error) {
	var fieldErrors []apperror.FieldError

	name := strings.TrimSpace(input.Name)
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if len(utils.DigitsOnly(input.Phone)) < 10 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "phone", Message: "Phone number is too short"})
	}
	email := strings.TrimSpace(input.Email)
	if email != "" && !emailPattern.MatchString(email) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "Email address is invalid"})
	}
	if strings.TrimSpace(input.ServiceLabel) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "service", Message: "Service is required"})
	}
	if input.Subtotal <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "subtotal", Message: "Subtotal must be positive"})
	}
	if input.Fee < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "fee", Message: "Fee cannot be negative"})
	}
	if input.ShippingCost < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "shipping_cost", Message: "Shipping cost cannot be negative"})
	}

	serviceType, known := enum.ParseServiceType(input.ServiceLabel)
	if !known {
		if s.paymentCfg.StrictServiceTypes {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "service", Message: "Unknown service type"})
		} else {
			log.Printf("unknown service label %q, defaulting to %s", input.ServiceLabel, enum.ServiceTypeWebsite)
			serviceType = enum.ServiceTypeWebsite
		}
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	discount, voucher, err := s.voucherService.ApplyCode(ctx, input.VoucherCode, input.Subtotal, time.Now())
	if err != nil {
		return nil, err
	}

	amounts := CalculateAmounts(AmountInput{
		Subtotal:         input.Subtotal,
		Discount:         discount,
		Fee:              input.Fee,
		ShippingCost:     input.ShippingCost,
		ServiceType:      serviceType,
		TaxRateBp:        s.paymentCfg.TaxRateBp,
		DepositPercentBp: s.paymentCfg.DepositPercentBp,
	})

	firstName, lastName := utils.SplitName(name)
	deliveryMethod, _ := enum.ParseDeliveryMethod(input.DeliveryMethod)

	var scope datatypes.JSON
	if len(input.Scope) > 0 {
		encoded, err := json.Marshal(input.Scope)
		if err != nil {
			return nil, apperror.NewBadRequestError("Invalid scope payload")
		}
		scope = datatypes.JSON(encoded)
	}

	voucherCode := ""
	if voucher != nil {
		voucherCode = voucher.Code
	}

	return &entity.Order{
		OrderNumber:    generateOrderNumber(),
		CustomerName:   name,
		FirstName:      firstName,
		LastName:       lastName,
		Phone:          utils.NormalizePhone(input.Phone),
		Email:          email,
		Company:        strings.TrimSpace(input.Company),
		ServiceType:    serviceType,
		Scope:          scope,
		DeliveryMethod: deliveryMethod,
		ScheduledAt:    input.ScheduledAt,
		VoucherCode:    voucherCode,
		Subtotal:       amounts.Subtotal,
		Discount:       amounts.Discount,
		DPP:            amounts.DPP,
		PPN:            amounts.PPN,
		Fee:            amounts.Fee,
		ShippingCost:   amounts.ShippingCost,
		GrandTotal:     amounts.GrandTotal,
		Deposit:        amounts.Deposit,
		Remaining:      amounts.Remaining,
		OrderStatus:    serviceType.InitialOrderStatus(),
		PaymentStatus:  enum.PaymentStatusDraft,
	}, nil
}

// CreateOrder prepares and persists an order
func (s *OrderService) CreateOrder(ctx context.Context, input *OrderInput) (*entity.Order, error) {
	order, err := s.PrepareOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder fetches an order by id
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetOrderByNumber fetches an order by its public order number
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders returns a filtered page of orders for the admin panel
func (s *OrderService) ListOrders(ctx context.Context, params *domainRepo.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(orders, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// CancelOrder cancels an order that has not reached a terminal state
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus.IsTerminal() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Order is already %s", order.OrderStatus))
	}

	order.OrderStatus = enum.OrderStatusCancelled
	if !order.PaymentStatus.IsTerminal() {
		order.PaymentStatus = enum.PaymentStatusCancelled
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new fulfilment status from the admin
// panel. Terminal orders stay put.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus.IsTerminal() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Order is already %s", order.OrderStatus))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	order.OrderStatus = status
	return order, nil
}

// generateOrderNumber builds a public order identifier. Uniqueness is
// enforced by the database index; the uuid fragment makes collisions
// practically impossible without leaking a sequential counter.
func generateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(uuid.New().String()[:8]))
}
