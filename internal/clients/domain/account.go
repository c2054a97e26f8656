/**
 * @description
 * This file defines the domain models for the clients-service. Accounts are the
 * only entities this service owns; balances are mutated exclusively by the
 * transfer consumer or by direct account-management operations.
 *
 * @notes
 * - Balances use shopspring/decimal to match the fixed-point decimal(15,2)
 *   column they map to. Floating point is never used for money.
 * - Accounts are soft-deleted: is_active=false removes them from every lookup
 *   used by transfers, but the row (and its history) stays.
 */
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a client's account record in the `users` table.
type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Address   *string         `json:"address,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UpdateAccountData carries the optional fields of a partial account update.
// Balance is deliberately absent: balances move only through applied transfers.
type UpdateAccountData struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u UpdateAccountData) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Address == nil
}
