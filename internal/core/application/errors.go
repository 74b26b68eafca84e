package application

import "errors"

var (
	// ErrAlreadyStarted is returned by Start if the wallet sync is not stopped.
	ErrAlreadyStarted = errors.New("wallet sync is already started")
	// ErrStartCancelled is returned by Start if Stop is called before the
	// start completes.
	ErrStartCancelled = errors.New("wallet sync stopped while starting")
	// ErrSenderNotConfigured is returned by SendTransaction if the wallet
	// service has no transaction sender.
	ErrSenderNotConfigured = errors.New("no transaction sender configured")
	// ErrMissingDaemon ...
	ErrMissingDaemon = errors.New("missing daemon")
	// ErrMissingSubWallets ...
	ErrMissingSubWallets = errors.New("missing sub-wallets")
	// ErrMissingAddressParser ...
	ErrMissingAddressParser = errors.New("missing address parser")
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repository manager")
	// ErrUnknownDBType is returned by Config if the database type is not
	// supported.
	ErrUnknownDBType = errors.New("database type not supported")
)
