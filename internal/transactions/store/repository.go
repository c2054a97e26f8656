/**
 * @description
 * This file defines the `Repository` interface for the transactions-service's
 * data access layer, decoupling the intake and reconciliation logic from the
 * PostgreSQL implementation.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: Transfer identifiers.
 * - internal/transactions/domain: The service's domain models.
 */
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thauan01/project-bank/internal/transactions/domain"
)

var ErrTransferNotFound = errors.New("transfer not found")

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) error
	FindTransferByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transfer, error)
	// FindTransfersByUserID returns transfers where the user is either the
	// sender or the receiver, newest first.
	FindTransfersByUserID(ctx context.Context, userID string) ([]domain.Transfer, error)
	UpdateTransferStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransferStatus) error
}
