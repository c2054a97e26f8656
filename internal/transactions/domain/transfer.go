/**
 * @description
 * This file defines the core domain models for the transactions-service. The
 * Transfer struct is the audit record for every money movement the system has
 * been asked to make; its status lifecycle is driven by settlement
 * confirmations from the clients-service, never by publish success alone.
 *
 * @notes
 * - Amounts use shopspring/decimal to match the decimal(15,2) column.
 * - Account ids are opaque strings owned by the clients-service; the foreign
 *   reference is not enforced across the service boundary.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer record.
type TransferStatus string

const (
	StatusPending   TransferStatus = "PENDING"
	StatusCompleted TransferStatus = "COMPLETED"
	StatusFailed    TransferStatus = "FAILED"
	StatusCancelled TransferStatus = "CANCELLED"
)

// Terminal reports whether the status is final. Terminal statuses are never
// downgraded by late or replayed confirmation events.
func (s TransferStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Transfer represents a requested movement of funds between two accounts.
// This struct maps directly to the `transactions` table in the database.
type Transfer struct {
	TransactionID  uuid.UUID       `json:"transactionId"`
	SenderUserID   string          `json:"senderUserId"`
	ReceiverUserID string          `json:"receiverUserId"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	Status         TransferStatus  `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateTransferRequest is the DTO for incoming transfer API requests.
type CreateTransferRequest struct {
	SenderUserID   string          `json:"senderUserId"`
	ReceiverUserID string          `json:"receiverUserId"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
}
