package store

import "errors"

var (
	// ErrRequestNotFound covers both a missing request id and a request
	// owned by another account; callers cannot tell the two apart.
	ErrRequestNotFound = errors.New("request not found")

	// ErrNoPendingRequests is returned by ClaimNextPending when the account
	// has nothing left to claim.
	ErrNoPendingRequests = errors.New("no pending requests")

	// ErrRequestFinalized is returned when a result is reported for a
	// request already in a terminal status. Done and Failed never revert.
	ErrRequestFinalized = errors.New("request already finalized")

	// ErrContactNotFound covers missing and foreign contacts alike.
	ErrContactNotFound = errors.New("contact not found")

	// ErrContactLimitReached is returned when an account is at its contact cap.
	ErrContactLimitReached = errors.New("contact limit reached")

	// ErrDuplicateContactName is returned on a case-insensitive name clash.
	ErrDuplicateContactName = errors.New("contact name already exists")
)
