package test

import (
	"context"

	"github.com/vkotelnikov/codemart/internal/adapter/gateway"
)

// GatewayClientStub simulates the payment gateway client.
type GatewayClientStub struct {
	CreateFn func(context.Context, gateway.CreateRequest) (*gateway.PaymentSession, error)
	StatusFn func(context.Context, string) (*gateway.TransactionStatus, error)
	ResumeFn func(context.Context, string) (*gateway.PaymentSession, error)

	Created []gateway.CreateRequest
}

// CreateTransaction records the request and returns a default session.
func (s *GatewayClientStub) CreateTransaction(ctx context.Context, req gateway.CreateRequest) (*gateway.PaymentSession, error) {
	s.Created = append(s.Created, req)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, req)
	}
	return &gateway.PaymentSession{Token: "pay-token", RedirectURL: "https://pay/redirect"}, nil
}

// GetTransactionStatus delegates to override or reports a pending charge.
func (s *GatewayClientStub) GetTransactionStatus(ctx context.Context, correlationID string) (*gateway.TransactionStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, correlationID)
	}
	status := gateway.DecodeStatus("pending", "", "")
	return &status, nil
}

// ResumeTransaction delegates to override or returns a default session.
func (s *GatewayClientStub) ResumeTransaction(ctx context.Context, correlationID string) (*gateway.PaymentSession, error) {
	if s.ResumeFn != nil {
		return s.ResumeFn(ctx, correlationID)
	}
	return &gateway.PaymentSession{Token: "pay-token", RedirectURL: "https://pay/redirect"}, nil
}

var _ gateway.Client = (*GatewayClientStub)(nil)
