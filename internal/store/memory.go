package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/easytransfer/backend/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local development.
// A single mutex stands in for the row locks the Postgres implementation
// takes, so the claim and contact invariants hold under concurrency here too.
type MemoryStore struct {
	mu            sync.Mutex
	requests      map[int64]*models.Request
	results       []models.Result
	contacts      map[int64]*models.Contact
	nextRequestID int64
	nextResultID  int64
	nextContactID int64
	clock         time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: map[int64]*models.Request{},
		contacts: map[int64]*models.Contact{},
		clock:    time.Now(),
	}
}

// tick returns a strictly increasing timestamp so creation order stays
// unambiguous even when rows are inserted within the same nanosecond.
func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Microsecond)
	return s.clock
}

func (s *MemoryStore) CreateRequest(ctx context.Context, accountID int64, phoneNumber string, amount float64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRequestID++
	req := &models.Request{
		ID:          s.nextRequestID,
		AccountID:   accountID,
		PhoneNumber: phoneNumber,
		Amount:      amount,
		Status:      models.StatusPending,
		CreatedAt:   s.tick(),
	}
	s.requests[req.ID] = req
	return req.ID, nil
}

func (s *MemoryStore) ClaimNextPending(ctx context.Context, accountID int64) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest *models.Request
	for _, req := range s.requests {
		if req.AccountID != accountID || req.Status != models.StatusPending {
			continue
		}
		if oldest == nil || req.CreatedAt.Before(oldest.CreatedAt) {
			oldest = req
		}
	}
	if oldest == nil {
		return nil, ErrNoPendingRequests
	}

	oldest.Status = models.StatusProcessing
	claimed := *oldest
	return &claimed, nil
}

func (s *MemoryStore) RecordResult(ctx context.Context, accountID, requestID int64, resultStatus, message, finalStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok || req.AccountID != accountID {
		return ErrRequestNotFound
	}
	if req.Status == models.StatusDone || req.Status == models.StatusFailed {
		return ErrRequestFinalized
	}

	s.nextResultID++
	s.results = append(s.results, models.Result{
		ID:        s.nextResultID,
		AccountID: accountID,
		RequestID: requestID,
		Status:    resultStatus,
		Message:   message,
		CreatedAt: s.tick(),
	})
	req.Status = finalStatus
	return nil
}

func (s *MemoryStore) GetRequest(ctx context.Context, accountID, requestID int64) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok || req.AccountID != accountID {
		return nil, ErrRequestNotFound
	}
	found := *req
	return &found, nil
}

func (s *MemoryStore) CreateContact(ctx context.Context, accountID int64, phoneNumber, name string, maxPerAccount int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same check order as the Postgres store: the cap first, then the
	// duplicate name.
	count := 0
	duplicate := false
	for _, c := range s.contacts {
		if c.AccountID != accountID {
			continue
		}
		count++
		if strings.EqualFold(c.Name, name) {
			duplicate = true
		}
	}
	if count >= maxPerAccount {
		return 0, ErrContactLimitReached
	}
	if duplicate {
		return 0, ErrDuplicateContactName
	}

	s.nextContactID++
	contact := &models.Contact{
		ID:          s.nextContactID,
		AccountID:   accountID,
		PhoneNumber: phoneNumber,
		Name:        name,
		DateAdded:   s.tick(),
	}
	s.contacts[contact.ID] = contact
	return contact.ID, nil
}

func (s *MemoryStore) DeleteContact(ctx context.Context, accountID, contactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[contactID]
	if !ok || c.AccountID != accountID {
		return ErrContactNotFound
	}
	delete(s.contacts, contactID)
	return nil
}

func (s *MemoryStore) ListContacts(ctx context.Context, accountID int64) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	contacts := []models.Contact{}
	for _, c := range s.contacts {
		if c.AccountID == accountID {
			contacts = append(contacts, *c)
		}
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].DateAdded.After(contacts[j].DateAdded)
	})
	return contacts, nil
}

// Results returns a copy of the result log; test helper.
func (s *MemoryStore) Results() []models.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Result, len(s.results))
	copy(out, s.results)
	return out
}
