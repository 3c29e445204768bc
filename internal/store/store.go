package store

import (
	"context"

	"github.com/easytransfer/backend/internal/models"
)

// Store is the persistence boundary for requests, results and contacts.
// Every operation is scoped by account id; rows belonging to other accounts
// behave as if they do not exist.
type Store interface {
	// CreateRequest inserts a new request in status Pending and returns its id.
	CreateRequest(ctx context.Context, accountID int64, phoneNumber string, amount float64) (int64, error)

	// ClaimNextPending atomically selects the oldest Pending request for the
	// account and flips it to Processing. Two concurrent claims never return
	// the same row. Returns ErrNoPendingRequests when nothing is claimable.
	ClaimNextPending(ctx context.Context, accountID int64) (*models.Request, error)

	// RecordResult appends a result row and moves the request to its final
	// status in one transaction. Returns ErrRequestNotFound if the request
	// does not exist under this account.
	RecordResult(ctx context.Context, accountID, requestID int64, resultStatus, message, finalStatus string) error

	// GetRequest returns the request or ErrRequestNotFound.
	GetRequest(ctx context.Context, accountID, requestID int64) (*models.Request, error)

	// CreateContact inserts a contact, enforcing the per-account cap and the
	// case-insensitive name uniqueness inside the same transaction.
	CreateContact(ctx context.Context, accountID int64, phoneNumber, name string, maxPerAccount int) (int64, error)

	// DeleteContact removes the contact or returns ErrContactNotFound.
	DeleteContact(ctx context.Context, accountID, contactID int64) error

	// ListContacts returns the account's contacts, newest first.
	ListContacts(ctx context.Context, accountID int64) ([]models.Contact, error)
}
