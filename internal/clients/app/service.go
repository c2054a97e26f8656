/**
 * @description
 * This file contains the account-management business logic for the
 * clients-service: reads, partial profile updates, and soft deletion. Balance
 * movements never go through here; they belong to the transfer consumer.
 *
 * @dependencies
 * - context, errors, regexp, strings: Standard Go libraries.
 * - internal/clients/domain, internal/clients/store: Domain models and data access.
 */
package app

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/thauan01/project-bank/internal/clients/domain"
	"github.com/thauan01/project-bank/internal/clients/store"
)

var (
	ErrInvalidAccountID = errors.New("account id is required")
	ErrInvalidName      = errors.New("name must be between 2 and 100 characters")
	ErrInvalidEmail     = errors.New("email must be a valid address of at most 100 characters")
	ErrInvalidAddress   = errors.New("address must be at most 255 characters")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service provides account-management operations for the clients-service.
type Service struct {
	repo store.Repository
}

// NewService creates a new clients service instance.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// GetAccount returns an active account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidAccountID
	}
	return s.repo.FindAccountByID(ctx, id)
}

// UpdateAccount validates and applies a partial profile update.
func (s *Service) UpdateAccount(ctx context.Context, id string, data domain.UpdateAccountData) (*domain.Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidAccountID
	}
	if data.Empty() {
		return nil, store.ErrNoFieldsToUpdate
	}
	if err := validateUpdateData(data); err != nil {
		return nil, err
	}
	return s.repo.UpdateAccount(ctx, id, data)
}

// DeactivateAccount soft-deletes an account, removing it from transfer lookups.
func (s *Service) DeactivateAccount(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidAccountID
	}
	return s.repo.DeactivateAccount(ctx, id)
}

func validateUpdateData(data domain.UpdateAccountData) error {
	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if len(name) < 2 || len(name) > 100 {
			return ErrInvalidName
		}
	}
	if data.Email != nil {
		email := strings.TrimSpace(*data.Email)
		if len(email) > 100 || !emailPattern.MatchString(email) {
			return ErrInvalidEmail
		}
	}
	if data.Address != nil && len(*data.Address) > 255 {
		return ErrInvalidAddress
	}
	return nil
}
