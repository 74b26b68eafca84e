package inmemory

import "errors"

var (
	// ErrLockedTransactionNotFound ...
	ErrLockedTransactionNotFound = errors.New("locked transaction not found")
)
