package models

import "time"

// Request statuses. A request is created Pending, flips to Processing when
// the worker claims it, and ends in one of the terminal statuses.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusDone       = "Done"
	StatusFailed     = "Failed"
)

// Result statuses reported by the worker.
const (
	ResultSuccess = "Success"
	ResultFailed  = "Failed"
)

// Request is a queued transfer request owned by one account.
type Request struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	PhoneNumber string    `json:"phone_number"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Result is the worker's outcome report for a request. Append-only.
type Result struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	RequestID int64     `json:"request_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Contact is an address-book entry scoped to one account.
type Contact struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"-"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name"`
	DateAdded   time.Time `json:"date_added"`
}

// CreateRequestPayload is the body for POST /requests.
type CreateRequestPayload struct {
	PhoneNumber string  `json:"phone_number" validate:"required,max=14,phone"`
	Amount      float64 `json:"amount" validate:"required,gt=0,lte=999999999"`
}

// RecordResultPayload is the body for POST /requests/{id}/result.
type RecordResultPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateContactPayload is the body for POST /contacts.
type CreateContactPayload struct {
	PhoneNumber string `json:"phone_number" validate:"required,max=14,phone"`
	Name        string `json:"name" validate:"required,max=50,notdigits,safechars"`
}
