package service

import (
	"context"
	"log"
	"time"

	"github.com/kiramedia/checkout-api/internal/domain/entity"
	"github.com/kiramedia/checkout-api/internal/domain/enum"
	domainRepo "github.com/kiramedia/checkout-api/internal/domain/repository"
	"github.com/kiramedia/checkout-api/internal/infrastructure/gateway"
	"github.com/kiramedia/checkout-api/internal/infrastructure/session"
	"github.com/kiramedia/checkout-api/pkg/apperror"
	"github.com/kiramedia/checkout-api/pkg/resilience"
)

// Gateway popup outcomes reported by the frontend callback
const (
	CallbackResultSuccess = "success"
	CallbackResultPending = "pending"
	CallbackResultError   = "error"
	CallbackResultClose   = "close"
)

// CallbackInput is what the frontend reports after the payment popup closes
type CallbackInput struct {
	Result string                     `json:"result"`
	Status *gateway.TransactionStatus `json:"status,omitempty"`
}

// CheckoutResult is returned to the frontend after a checkout begins or a
// payment attempt is retried
type CheckoutResult struct {
	Order       *entity.Order            `json:"order"`
	SnapToken   string                   `json:"snap_token"`
	RedirectURL string                   `json:"redirect_url"`
	Session     *session.CheckoutSession `json:"session"`
}

// CallbackOutcome is the state after processing a popup callback or a poll
type CallbackOutcome struct {
	Order   *entity.Order            `json:"order"`
	Session *session.CheckoutSession `json:"session"`
	Warning string                   `json:"warning,omitempty"`
}

// CheckoutService walks a customer through payment: it creates the order,
// requests a hosted-checkout token, tracks the attempt in a session, and
// applies gateway results reported back by the frontend or the status poll.
type CheckoutService struct {
	reconciler
	orderService *OrderService
	gateway      gateway.Client
	sessions     session.Store
	effects      *PaymentEffects

	retryPolicy       resilience.RetryPolicy
	maxPaymentRetries int
}

// NewCheckoutService creates a new checkout orchestrator
func NewCheckoutService(
	orderRepo domainRepo.OrderRepository,
	transactionRepo domainRepo.TransactionRepository,
	orderService *OrderService,
	gatewayClient gateway.Client,
	sessions session.Store,
	effects *PaymentEffects,
	retryPolicy resilience.RetryPolicy,
	maxPaymentRetries int,
) *CheckoutService {
	if maxPaymentRetries <= 0 {
		maxPaymentRetries = 3
	}
	return &CheckoutService{
		reconciler:        reconciler{orderRepo: orderRepo, transactionRepo: transactionRepo},
		orderService:      orderService,
		gateway:           gatewayClient,
		sessions:          sessions,
		effects:           effects,
		retryPolicy:       retryPolicy,
		maxPaymentRetries: maxPaymentRetries,
	}
}

// BeginCheckout creates the order from the submitted form and requests a
// hosted-checkout token for the amount due in the current stage
func (s *CheckoutService) BeginCheckout(ctx context.Context, input *OrderInput) (*CheckoutResult, error) {
	order, err := s.orderService.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	sess := &session.CheckoutSession{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		State:       session.StateSelectingMethod,
		Attempts:    1,
		CreatedAt:   time.Now(),
	}

	token, err := s.requestToken(ctx, order)
	if err != nil {
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			log.Printf("order %s: session save failed: %v", order.OrderNumber, saveErr)
		}
		return nil, err
	}

	// The token request is the first payment attempt: open the transaction
	// log row as pending so the order shows up in reconciliation immediately.
	pending := &entity.Transaction{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		GrossAmount: order.AmountDueNow(),
		Status:      enum.GatewayStatusPending,
	}
	if err := s.transactionRepo.UpsertByOrderID(ctx, pending); err != nil {
		log.Printf("order %s: pending transaction write failed: %v", order.OrderNumber, err)
	}

	sess.State = session.StateAwaitingGatewayResult
	sess.SnapToken = token.Token
	sess.RedirectURL = token.RedirectURL
	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Printf("order %s: session save failed: %v", order.OrderNumber, err)
	}

	return &CheckoutResult{
		Order:       order,
		SnapToken:   token.Token,
		RedirectURL: token.RedirectURL,
		Session:     sess,
	}, nil
}

// RetryPayment requests a fresh token for an order whose previous attempt
// errored or was abandoned. Attempts are capped; past the cap the session is
// failed and the customer is told to contact support.
func (s *CheckoutService) RetryPayment(ctx context.Context, orderNumber string) (*CheckoutResult, error) {
	order, err := s.orderService.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus.IsTerminal() {
		return nil, apperror.NewBadRequestError("Order payment is already settled")
	}

	sess, err := s.loadOrRebuildSession(ctx, order)
	if err != nil {
		return nil, err
	}
	if sess.Attempts >= s.maxPaymentRetries {
		sess.State = session.StateFailed
		if err := s.sessions.Save(ctx, sess); err != nil {
			log.Printf("order %s: session save failed: %v", order.OrderNumber, err)
		}
		return nil, apperror.NewBadRequestError("Payment attempt limit reached, please contact support")
	}

	token, err := s.requestToken(ctx, order)
	if err != nil {
		return nil, err
	}

	sess.Attempts++
	sess.State = session.StateAwaitingGatewayResult
	sess.SnapToken = token.Token
	sess.RedirectURL = token.RedirectURL
	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Printf("order %s: session save failed: %v", order.OrderNumber, err)
	}

	return &CheckoutResult{
		Order:       order,
		SnapToken:   token.Token,
		RedirectURL: token.RedirectURL,
		Session:     sess,
	}, nil
}

// HandleCallback processes the popup outcome reported by the frontend. A
// close is recorded distinctly from a failure: the customer dismissed the
// popup, nothing is known about the payment.
func (s *CheckoutService) HandleCallback(ctx context.Context, orderNumber string, input *CallbackInput) (*CallbackOutcome, error) {
	order, err := s.orderService.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	sess, err := s.loadOrRebuildSession(ctx, order)
	if err != nil {
		return nil, err
	}

	outcome := &CallbackOutcome{Order: order, Session: sess}

	switch input.Result {
	case CallbackResultClose:
		if !sess.State.IsTerminal() {
			sess.State = session.StateClosed
		}

	case CallbackResultError:
		sess.Attempts++
		if sess.Attempts >= s.maxPaymentRetries {
			sess.State = session.StateFailed
			if _, err := s.orderRepo.UpdatePaymentStatus(ctx, order.ID, enum.PaymentStatusFailed); err != nil {
				return nil, err
			}
			order.PaymentStatus = enum.PaymentStatusFailed
		} else {
			sess.State = session.StateSelectingMethod
		}

	case CallbackResultSuccess, CallbackResultPending:
		if input.Status == nil {
			return nil, apperror.NewBadRequestError("Callback result requires a transaction status")
		}
		mapped, updated, err := s.recordResult(ctx, order, input.Status)
		if err != nil {
			// The gateway said paid but our write failed; the customer must
			// not be blocked, the webhook retry path will converge the state.
			log.Printf("order %s: callback persistence failed: %v", order.OrderNumber, err)
			outcome.Warning = "Payment received, confirmation is still syncing"
		} else {
			sess.State = sessionStateFor(mapped, sess.State)
			sess.LastStatus = input.Status.TransactionStatus
			if updated && mapped == enum.PaymentStatusPaid {
				s.effects.OnPaid(ctx, order, parseGrossAmount(input.Status.GrossAmount))
			}
		}

	default:
		return nil, apperror.NewBadRequestError("Unknown callback result")
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Printf("order %s: session save failed: %v", order.OrderNumber, err)
	}
	return outcome, nil
}

// PollStatus asks the gateway for the authoritative transaction status and
// reconciles the order against it. Used when the popup outcome was lost.
func (s *CheckoutService) PollStatus(ctx context.Context, orderNumber string) (*CallbackOutcome, error) {
	order, err := s.orderService.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	var status *gateway.TransactionStatus
	err = resilience.Retry(ctx, s.retryPolicy, gateway.IsTransient, func(ctx context.Context) error {
		var callErr error
		status, callErr = s.gateway.GetStatus(ctx, order.OrderNumber)
		return callErr
	})
	if err != nil {
		if gateway.IsTransient(err) {
			return nil, apperror.NewGatewayError("Payment gateway is temporarily unavailable")
		}
		return nil, err
	}

	mapped, updated, err := s.recordResult(ctx, order, status)
	if err != nil {
		return nil, err
	}
	if updated && mapped == enum.PaymentStatusPaid {
		s.effects.OnPaid(ctx, order, parseGrossAmount(status.GrossAmount))
	}

	sess, err := s.loadOrRebuildSession(ctx, order)
	if err != nil {
		return nil, err
	}
	sess.State = sessionStateFor(mapped, sess.State)
	sess.LastStatus = status.TransactionStatus
	if err := s.sessions.Save(ctx, sess); err != nil {
		log.Printf("order %s: session save failed: %v", order.OrderNumber, err)
	}

	return &CallbackOutcome{Order: order, Session: sess}, nil
}

// requestToken calls the gateway with bounded retries on transient failures
func (s *CheckoutService) requestToken(ctx context.Context, order *entity.Order) (*gateway.SnapToken, error) {
	req := &gateway.SnapRequest{
		TransactionDetails: gateway.TransactionDetails{
			OrderID:     order.OrderNumber,
			GrossAmount: order.AmountDueNow(),
		},
		ItemDetails: []gateway.ItemDetail{{
			ID:       order.ServiceType.String(),
			Name:     paymentStageName(order),
			Price:    order.AmountDueNow(),
			Quantity: 1,
		}},
		CustomerDetails: gateway.CustomerDetails{
			FirstName: order.FirstName,
			LastName:  order.LastName,
			Email:     order.Email,
			Phone:     order.Phone,
		},
	}

	var token *gateway.SnapToken
	err := resilience.Retry(ctx, s.retryPolicy, gateway.IsTransient, func(ctx context.Context) error {
		var callErr error
		token, callErr = s.gateway.CreateTransaction(ctx, req)
		return callErr
	})
	if err != nil {
		log.Printf("order %s: token request failed: %v", order.OrderNumber, err)
		if gateway.IsTransient(err) {
			return nil, apperror.NewGatewayError("Payment gateway is temporarily unavailable")
		}
		return nil, err
	}
	return token, nil
}

// loadOrRebuildSession fetches the checkout session, reconstructing one from
// the order when it has expired from the store
func (s *CheckoutService) loadOrRebuildSession(ctx context.Context, order *entity.Order) (*session.CheckoutSession, error) {
	sess, err := s.sessions.Get(ctx, order.ID.String())
	if err != nil {
		return nil, err
	}
	if sess != nil {
		return sess, nil
	}
	return &session.CheckoutSession{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		State:       sessionStateForPayment(order.PaymentStatus),
		Attempts:    1,
		CreatedAt:   time.Now(),
	}, nil
}

// sessionStateFor maps a reconciled payment status to the session state.
// Statuses with no session meaning (draft, refunded) keep the current state.
func sessionStateFor(status enum.PaymentStatus, current session.State) session.State {
	switch status {
	case enum.PaymentStatusPaid:
		return session.StatePaid
	case enum.PaymentStatusPendingConfirmation:
		return session.StatePendingConfirmation
	case enum.PaymentStatusFailed, enum.PaymentStatusCancelled:
		return session.StateFailed
	default:
		return current
	}
}

// sessionStateForPayment picks a starting state for a rebuilt session
func sessionStateForPayment(status enum.PaymentStatus) session.State {
	return sessionStateFor(status, session.StateSelectingMethod)
}

// paymentStageName labels the line item for the hosted checkout page
func paymentStageName(order *entity.Order) string {
	if order.OrderStatus == enum.OrderStatusWaitingDeposit && order.Deposit > 0 {
		return order.ServiceType.Label() + " (deposit)"
	}
	return order.ServiceType.Label()
}
