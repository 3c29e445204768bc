package service

import "errors"

// ErrInvalidResultStatus is returned when a result report carries a status
// other than Success or Failed.
var ErrInvalidResultStatus = errors.New("status must be Success or Failed")
