/**
 * @description
 * This file provides the PostgreSQL implementation of the clients-service
 * `Repository` interface. It contains all SQL touching the `users` and
 * `processed_transfers` tables.
 *
 * @dependencies
 * - context, errors, fmt, strings: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - github.com/shopspring/decimal: Fixed-point money amounts.
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/thauan01/project-bank/internal/clients/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = "id, name, email, address, balance, is_active, created_at, updated_at"

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Address,
		&account.Balance,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByID retrieves an active account. Soft-deleted accounts are
// excluded from every lookup used by transfers.
func (r *PostgresRepository) FindAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 AND is_active = true", accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

// UpdateAccount applies a partial update to an account's profile fields and
// returns the updated record.
func (r *PostgresRepository) UpdateAccount(ctx context.Context, id string, data domain.UpdateAccountData) (*domain.Account, error) {
	if data.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	setClauses := []string{"updated_at = now()"}
	args := []interface{}{id}
	appendField := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	appendField("name", data.Name)
	appendField("email", data.Email)
	appendField("address", data.Address)

	query := fmt.Sprintf(
		"UPDATE users SET %s WHERE id = $1 AND is_active = true RETURNING %s",
		strings.Join(setClauses, ", "), accountColumns,
	)

	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return account, nil
}

// DeactivateAccount soft-deletes an account. The row is never removed.
func (r *PostgresRepository) DeactivateAccount(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET is_active = false, updated_at = now() WHERE id = $1 AND is_active = true", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ApplyTransfer commits the debit, the credit, and the processed-transfer
// record as one database transaction. The unique constraint on
// processed_transfers.transaction_id makes redelivery of the same transfer a
// safe no-op, and the guarded debit keeps balances non-negative even when the
// caller's pre-read was stale.
func (r *PostgresRepository) ApplyTransfer(ctx context.Context, transactionID, senderID, receiverID string, amount decimal.Decimal) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"INSERT INTO processed_transfers (transaction_id) VALUES ($1) ON CONFLICT (transaction_id) DO NOTHING",
		transactionID,
	)
	if err != nil {
		return fmt.Errorf("record transfer id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferAlreadyApplied
	}

	tag, err = tx.Exec(ctx,
		"UPDATE users SET balance = balance - $1, updated_at = now() WHERE id = $2 AND is_active = true AND balance >= $1",
		amount, senderID,
	)
	if err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var balance decimal.Decimal
		err = tx.QueryRow(ctx, "SELECT balance FROM users WHERE id = $1 AND is_active = true", senderID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("sender %s: %w", senderID, ErrAccountNotFound)
		}
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}
		return fmt.Errorf("sender %s balance %s below amount %s: %w", senderID, balance, amount, ErrInsufficientFunds)
	}

	tag, err = tx.Exec(ctx,
		"UPDATE users SET balance = balance + $1, updated_at = now() WHERE id = $2 AND is_active = true",
		amount, receiverID,
	)
	if err != nil {
		return fmt.Errorf("credit receiver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("receiver %s: %w", receiverID, ErrAccountNotFound)
	}

	return tx.Commit(ctx)
}
