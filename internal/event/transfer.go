/**
 * @description
 * This package defines the wire contract for every message exchanged between the
 * transactions-service and the clients-service over RabbitMQ. Both sides validate
 * payloads at the channel boundary instead of trusting ad hoc field checks.
 *
 * @notes
 * - Amounts travel as JSON numbers (decimal.MarshalJSONWithoutQuotes), matching
 *   the `amount: number` shape consumed by the clients-service.
 * - The transport guarantees at-least-once delivery only; consumers must treat
 *   every payload as potentially redelivered.
 */
package event

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Exchange is the durable topic exchange both services publish to.
const Exchange = "bank.events"

const (
	// RoutingKeyTransferCreated carries new transfer intents from the
	// transactions-service to the clients-service.
	RoutingKeyTransferCreated = "transfer.created"

	// RoutingKeyTransferApplied and RoutingKeyTransferFailed carry settlement
	// confirmations back from the clients-service once balances have (or have
	// definitively not) moved.
	RoutingKeyTransferApplied = "transfer.applied"
	RoutingKeyTransferFailed  = "transfer.failed"
)

// Recognized values for the TransferCreated status field.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// Terminal outcomes reported by the clients-service in TransferResolved events.
const (
	ResolutionApplied = "applied"
	ResolutionFailed  = "failed"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransferCreated is the event published by the transactions-service after a
// transfer record has been persisted. It is the only channel of truth the
// clients-service has for moving funds.
type TransferCreated struct {
	SenderUserID   string          `json:"senderUserId"`
	ReceiverUserID string          `json:"receiverUserId"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionID  string          `json:"transactionId"`
	Status         string          `json:"status"`
	Timestamp      string          `json:"timestamp,omitempty"`
}

// Validate checks the structural requirements of the payload. A validation
// failure is permanent: redelivering the same bytes cannot fix it.
func (e TransferCreated) Validate() error {
	if e.SenderUserID == "" {
		return errors.New("senderUserId is required")
	}
	if e.ReceiverUserID == "" {
		return errors.New("receiverUserId is required")
	}
	if e.TransactionID == "" {
		return errors.New("transactionId is required")
	}
	if !e.Amount.IsPositive() {
		return fmt.Errorf("amount must be a positive number, got %s", e.Amount)
	}
	switch e.Status {
	case StatusSuccess, StatusFailed, StatusPending:
	default:
		return fmt.Errorf("unrecognized status %q", e.Status)
	}
	return nil
}

// TransferResolved is the confirmation event the clients-service publishes once
// a transfer has reached a terminal outcome on the balance side. The
// transactions-service drives its record's status transition from this event,
// never from publish success alone.
type TransferResolved struct {
	TransactionID  string          `json:"transactionId"`
	SenderUserID   string          `json:"senderUserId"`
	ReceiverUserID string          `json:"receiverUserId"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	Reason         string          `json:"reason,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
}

// Validate checks the structural requirements of a settlement confirmation.
func (e TransferResolved) Validate() error {
	if e.TransactionID == "" {
		return errors.New("transactionId is required")
	}
	switch e.Status {
	case ResolutionApplied, ResolutionFailed:
	default:
		return fmt.Errorf("unrecognized resolution status %q", e.Status)
	}
	return nil
}

// Now returns the canonical timestamp format used on the wire.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
