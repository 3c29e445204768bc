package service

import (
	"context"

	"github.com/easytransfer/backend/internal/models"
	"github.com/easytransfer/backend/internal/store"
)

// ContactService manages the per-account address book: a small capped list
// with case-insensitive unique names.
type ContactService struct {
	store         store.Store
	maxPerAccount int
}

func NewContactService(s store.Store, maxPerAccount int) *ContactService {
	return &ContactService{store: s, maxPerAccount: maxPerAccount}
}

// Create adds a contact. The cap and the duplicate-name check are enforced
// inside the store transaction so concurrent adds cannot exceed the limit.
func (s *ContactService) Create(ctx context.Context, accountID int64, phoneNumber, name string) (int64, error) {
	return s.store.CreateContact(ctx, accountID, phoneNumber, name, s.maxPerAccount)
}

// Delete removes the contact; missing and foreign contacts both return
// store.ErrContactNotFound.
func (s *ContactService) Delete(ctx context.Context, accountID, contactID int64) error {
	return s.store.DeleteContact(ctx, accountID, contactID)
}

// List returns the account's contacts, newest first.
func (s *ContactService) List(ctx context.Context, accountID int64) ([]models.Contact, error) {
	return s.store.ListContacts(ctx, accountID)
}

// MaxPerAccount exposes the configured cap for error messages.
func (s *ContactService) MaxPerAccount() int {
	return s.maxPerAccount
}
