package dbbadger

import "errors"

var (
	// ErrLockedTransactionNotFound ...
	ErrLockedTransactionNotFound = errors.New("locked transaction not found")
)
