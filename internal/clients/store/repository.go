/**
 * @description
 * This file defines the `Repository` interface for the clients-service's data
 * access layer. The interface decouples the balance-update state machine from
 * the PostgreSQL implementation so the consumer can be tested against stubs.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/shopspring/decimal: Fixed-point money amounts.
 * - internal/clients/domain: The service's domain models.
 */
package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thauan01/project-bank/internal/clients/domain"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrTransferAlreadyApplied = errors.New("transfer already applied")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
	ErrEmailTaken             = errors.New("email already in use by another account")
)

// Repository defines the set of methods for interacting with the database.
// "Not found" is always a distinguishable sentinel, never an error masquerading
// as success.
type Repository interface {
	FindAccountByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id string, data domain.UpdateAccountData) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, id string) error

	// ApplyTransfer moves funds between two accounts in a single database
	// transaction, keyed by the transfer's transaction id. Replays of an
	// already-applied transaction id return ErrTransferAlreadyApplied and
	// leave both balances untouched.
	ApplyTransfer(ctx context.Context, transactionID, senderID, receiverID string, amount decimal.Decimal) error
}
