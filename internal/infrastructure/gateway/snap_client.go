package gateway

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/kiramedia/checkout-api/pkg/resilience"
)

// Client is the outbound interface to the payment gateway. The concrete
// implementation talks HTTP; tests substitute fakes.
type Client interface {
	CreateTransaction(ctx context.Context, req *SnapRequest) (*SnapToken, error)
	GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error)
	VerifySignature(status *TransactionStatus) bool
}

// TransientError marks a failure worth retrying: transport errors, timeouts
// and gateway 5xx responses. Everything else is terminal.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable gateway failure
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Config holds gateway client settings
type Config struct {
	BaseURL     string
	ServerKey   string
	CallTimeout time.Duration
}

// SnapClient is the HTTP client for a Snap-style hosted checkout gateway.
// Every call runs through the circuit breaker; an explicit per-call timeout
// makes hangs count as failures rather than blocking forever.
type SnapClient struct {
	cfg     Config
	http    *http.Client
	breaker *resilience.CircuitBreaker
}

// NewSnapClient creates a gateway client with the given breaker
func NewSnapClient(cfg Config, breaker *resilience.CircuitBreaker) *SnapClient {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 15 * time.Second
	}
	return &SnapClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.CallTimeout},
		breaker: breaker,
	}
}

// CreateTransaction asks the gateway for a hosted-checkout token
func (c *SnapClient) CreateTransaction(ctx context.Context, req *SnapRequest) (*SnapToken, error) {
	var token SnapToken
	if err := c.call(ctx, http.MethodPost, "/snap/v1/transactions", req, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetStatus polls the gateway for the current transaction status
func (c *SnapClient) GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	var status TransactionStatus
	path := "/v2/" + url.PathEscape(orderID) + "/status"
	if err := c.call(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// VerifySignature checks the SHA-512 digest the gateway attaches to every
// notification: sha512(order_id + status_code + gross_amount + server_key).
func (c *SnapClient) VerifySignature(status *TransactionStatus) bool {
	payload := status.OrderID + status.StatusCode + status.GrossAmount + c.cfg.ServerKey
	sum := sha512.Sum512([]byte(payload))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(status.SignatureKey)) == 1
}

// call performs one authenticated request through the circuit breaker
func (c *SnapClient) call(ctx context.Context, method, path string, body, out interface{}) error {
	if !c.breaker.Allow() {
		return &TransientError{Err: fmt.Errorf("%w: %s", resilience.ErrBreakerOpen, c.breaker.Name())}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.cfg.ServerKey+":")))

	resp, err := c.http.Do(req)
	if err != nil {
		c.breaker.Failure()
		if isNetworkError(err) {
			return &TransientError{Err: err}
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		c.breaker.Failure()
		return &TransientError{Err: fmt.Errorf("gateway returned %d", resp.StatusCode)}
	}
	if resp.StatusCode >= 400 {
		// Client errors are terminal and do not trip the breaker
		c.breaker.Success()
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway rejected request (%d): %s", resp.StatusCode, string(data))
	}

	c.breaker.Success()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode gateway response: %w", err)
		}
	}
	return nil
}

// isNetworkError classifies transport-level failures as transient
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
