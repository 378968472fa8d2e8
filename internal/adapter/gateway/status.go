package gateway

import "github.com/vkotelnikov/codemart/internal/domain/model"

// StatusKind tags the transaction status variants the gateway can report.
// The gateway vocabulary is decoded into this union exactly once, at the
// adapter boundary; nothing outside this package inspects raw gateway fields.
type StatusKind string

const (
	KindPending    StatusKind = "pending"
	KindSettlement StatusKind = "settlement"
	KindCapture    StatusKind = "capture"
	KindTerminal   StatusKind = "terminal"
)

const (
	fraudAccept    = "accept"
	fraudChallenge = "challenge"
)

// TransactionStatus is the decoded gateway ground truth for one transaction.
// FraudStatus is meaningful for capture only, Reason for terminal only.
type TransactionStatus struct {
	Kind          StatusKind
	FraudStatus   string
	Reason        string
	TransactionID string
}

// DecodeStatus maps the raw gateway status vocabulary onto the tagged union.
// Unknown statuses decode as pending so that reconciliation never finalizes
// an order on vocabulary it does not understand.
func DecodeStatus(transactionStatus, fraudStatus, transactionID string) TransactionStatus {
	s := TransactionStatus{TransactionID: transactionID}
	switch transactionStatus {
	case "settlement":
		s.Kind = KindSettlement
	case "capture":
		s.Kind = KindCapture
		s.FraudStatus = fraudStatus
	case "cancel", "deny", "expire":
		s.Kind = KindTerminal
		s.Reason = transactionStatus
	default:
		s.Kind = KindPending
	}
	return s
}

// Resolve maps the decoded status onto the order state machine. A challenged
// capture stays pending: the funds are not safely held yet.
func (s TransactionStatus) Resolve() model.PaymentStatus {
	switch s.Kind {
	case KindSettlement:
		return model.PaymentStatusCompleted
	case KindCapture:
		if s.FraudStatus == fraudAccept {
			return model.PaymentStatusCompleted
		}
		return model.PaymentStatusPending
	case KindTerminal:
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}
