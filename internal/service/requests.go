package service

import (
	"context"
	"fmt"

	"github.com/easytransfer/backend/internal/models"
	"github.com/easytransfer/backend/internal/store"
)

// RequestService owns the request lifecycle: Pending on creation, Processing
// once claimed, Done or Failed once the worker reports back. All visibility
// is scoped by the account id taken from the caller's token.
type RequestService struct {
	store store.Store
}

func NewRequestService(s store.Store) *RequestService {
	return &RequestService{store: s}
}

// Create inserts a new request in status Pending and returns its id.
// Input validation happens at the API boundary; two identical submissions
// create two rows.
func (s *RequestService) Create(ctx context.Context, accountID int64, phoneNumber string, amount float64) (int64, error) {
	return s.store.CreateRequest(ctx, accountID, phoneNumber, amount)
}

// ClaimNextPending hands the worker the oldest Pending request, atomically
// marked Processing. Returns store.ErrNoPendingRequests when the queue for
// the account is empty.
func (s *RequestService) ClaimNextPending(ctx context.Context, accountID int64) (*models.Request, error) {
	return s.store.ClaimNextPending(ctx, accountID)
}

// RecordResult appends the worker's outcome and moves the request to its
// terminal status: Done for Success, Failed otherwise. The result status
// must be Success or Failed; the request must belong to the account and must
// not already be terminal — Done and Failed never revert.
func (s *RequestService) RecordResult(ctx context.Context, accountID, requestID int64, resultStatus, message string) (string, error) {
	if resultStatus != models.ResultSuccess && resultStatus != models.ResultFailed {
		return "", fmt.Errorf("%w: %q", ErrInvalidResultStatus, resultStatus)
	}

	finalStatus := models.StatusFailed
	if resultStatus == models.ResultSuccess {
		finalStatus = models.StatusDone
	}

	if err := s.store.RecordResult(ctx, accountID, requestID, resultStatus, message, finalStatus); err != nil {
		return "", err
	}
	return finalStatus, nil
}

// GetByID returns the request, or store.ErrRequestNotFound for ids that are
// absent or owned by another account.
func (s *RequestService) GetByID(ctx context.Context, accountID, requestID int64) (*models.Request, error) {
	return s.store.GetRequest(ctx, accountID, requestID)
}
