/**
 * @description
 * This file provides the PostgreSQL implementation of the transactions-service
 * `Repository` interface. It contains all SQL touching the `transactions` table.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - github.com/google/uuid: Transfer identifiers.
 */
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thauan01/project-bank/internal/transactions/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateTransfer persists a new transfer record and fills in the row's
// created_at timestamp.
func (r *PostgresRepository) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	query := `
		INSERT INTO transactions (transaction_id, sender_user_id, receiver_user_id, amount, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query,
		transfer.TransactionID,
		transfer.SenderUserID,
		transfer.ReceiverUserID,
		transfer.Amount,
		transfer.Description,
		transfer.Status,
	).Scan(&transfer.CreatedAt)
}

// FindTransferByID retrieves a transfer by its transaction id.
func (r *PostgresRepository) FindTransferByID(ctx context.Context, transactionID uuid.UUID) (*domain.Transfer, error) {
	var transfer domain.Transfer
	query := `
		SELECT transaction_id, sender_user_id, receiver_user_id, amount, description, status, created_at
		FROM transactions
		WHERE transaction_id = $1
	`
	err := r.db.QueryRow(ctx, query, transactionID).Scan(
		&transfer.TransactionID,
		&transfer.SenderUserID,
		&transfer.ReceiverUserID,
		&transfer.Amount,
		&transfer.Description,
		&transfer.Status,
		&transfer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindTransfersByUserID retrieves every transfer in which the user appears as
// sender or receiver, newest first.
func (r *PostgresRepository) FindTransfersByUserID(ctx context.Context, userID string) ([]domain.Transfer, error) {
	query := `
		SELECT transaction_id, sender_user_id, receiver_user_id, amount, description, status, created_at
		FROM transactions
		WHERE sender_user_id = $1 OR receiver_user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var transfer domain.Transfer
		if err := rows.Scan(
			&transfer.TransactionID,
			&transfer.SenderUserID,
			&transfer.ReceiverUserID,
			&transfer.Amount,
			&transfer.Description,
			&transfer.Status,
			&transfer.CreatedAt,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}

// UpdateTransferStatus moves a transfer to a new status. Transfers already in
// a terminal status are left untouched; the guard runs in SQL so concurrent
// confirmations cannot race each other into a downgrade.
func (r *PostgresRepository) UpdateTransferStatus(ctx context.Context, transactionID uuid.UUID, status domain.TransferStatus) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE transactions SET status = $2 WHERE transaction_id = $1 AND status = $3",
		transactionID, status, domain.StatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM transactions WHERE transaction_id = $1)", transactionID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTransferNotFound
		}
		// Already terminal; nothing to do.
	}
	return nil
}
