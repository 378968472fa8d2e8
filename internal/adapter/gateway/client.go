package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/vkotelnikov/codemart/internal/domain/errors"
)

// ErrTransactionUnknown indicates the gateway has no transaction under the
// given correlation id.
var ErrTransactionUnknown = errors.New("transaction unknown to gateway")

// CreateRequest carries everything the gateway needs to open a transaction.
type CreateRequest struct {
	OrderID      string
	GrossAmount  int64
	CustomerName string
	ItemName     string
	Quantity     int
	UnitPrice    int64
}

// PaymentSession is a live payment-widget handle issued by the gateway.
type PaymentSession struct {
	Token       string
	RedirectURL string
}

// Client exposes the outbound gateway operations used by checkout and
// settlement.
type Client interface {
	CreateTransaction(ctx context.Context, req CreateRequest) (*PaymentSession, error)
	GetTransactionStatus(ctx context.Context, correlationID string) (*TransactionStatus, error)
	ResumeTransaction(ctx context.Context, correlationID string) (*PaymentSession, error)
}

// HTTPClient implements Client against the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	serverKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type customerDetails struct {
	FirstName string `json:"first_name"`
}

type itemDetails struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

type createPayload struct {
	TransactionDetails transactionDetails `json:"transaction_details"`
	CustomerDetails    customerDetails    `json:"customer_details"`
	ItemDetails        []itemDetails      `json:"item_details"`
}

type sessionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type statusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

// NewHTTPClient creates the gateway client with a default timeout.
func NewHTTPClient(baseURL, serverKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL:   parsed,
		serverKey: serverKey,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateTransaction opens a new hosted-payment transaction and returns the
// widget session. Any transport or server-side failure surfaces as
// ErrGatewayUnavailable so the caller can roll back its reservation.
func (c *HTTPClient) CreateTransaction(ctx context.Context, req CreateRequest) (*PaymentSession, error) {
	payload := createPayload{
		TransactionDetails: transactionDetails{OrderID: req.OrderID, GrossAmount: req.GrossAmount},
		CustomerDetails:    customerDetails{FirstName: req.CustomerName},
		ItemDetails:        []itemDetails{{Name: req.ItemName, Quantity: req.Quantity, Price: req.UnitPrice}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.unavailable("create transaction", resp)
	}
	return decodeSession(resp.Body)
}

// GetTransactionStatus queries the gateway for ground truth about a
// transaction.
func (c *HTTPClient) GetTransactionStatus(ctx context.Context, correlationID string) (*TransactionStatus, error) {
	resp, err := c.do(ctx, http.MethodGet, path.Join("/v2", correlationID, "status"), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var data statusResponse
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: decode status: %v", domainErrors.ErrGatewayUnavailable, err)
		}
		status := DecodeStatus(data.TransactionStatus, data.FraudStatus, data.TransactionID)
		return &status, nil
	case http.StatusNotFound:
		return nil, ErrTransactionUnknown
	default:
		return nil, c.unavailable("transaction status", resp)
	}
}

// ResumeTransaction fetches a fresh widget session for an already open
// transaction, so an interrupted checkout continues on the same charge.
func (c *HTTPClient) ResumeTransaction(ctx context.Context, correlationID string) (*PaymentSession, error) {
	resp, err := c.do(ctx, http.MethodGet, path.Join("/snap/v1/transactions", correlationID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodeSession(resp.Body)
	case http.StatusNotFound:
		return nil, ErrTransactionUnknown
	default:
		return nil, c.unavailable("resume transaction", resp)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, body io.Reader) (*http.Response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.serverKey, "")

	return c.httpClient.Do(req)
}

func (c *HTTPClient) unavailable(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	c.logger.Error("gateway request failed",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(body)),
	)
	return fmt.Errorf("%w: %s returned %s", domainErrors.ErrGatewayUnavailable, op, resp.Status)
}

func decodeSession(r io.Reader) (*PaymentSession, error) {
	var data sessionResponse
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode session: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	if data.Token == "" {
		return nil, fmt.Errorf("%w: empty session token", domainErrors.ErrGatewayUnavailable)
	}
	return &PaymentSession{Token: data.Token, RedirectURL: data.RedirectURL}, nil
}
