package domain

import "errors"

// Address validation errors.
var (
	// ErrAddressWrongLength is returned if an address is neither as long as a
	// standard nor as an integrated address.
	ErrAddressWrongLength = errors.New("address is the wrong length")
	// ErrAddressNotBase58 is returned if an address contains characters
	// outside the base58 alphabet.
	ErrAddressNotBase58 = errors.New("address is not valid base58")
	// ErrAddressIsIntegrated is returned if an integrated address is given
	// where only standard addresses are allowed.
	ErrAddressIsIntegrated = errors.New("integrated address given where not allowed")
	// ErrAddressChecksumMismatch is returned if the address checksum is wrong.
	ErrAddressChecksumMismatch = errors.New("address checksum does not match")
	// ErrAddressWrongPrefix is returned if the address belongs to another
	// network.
	ErrAddressWrongPrefix = errors.New("address prefix does not match network")
	// ErrAddressNotInWallet is returned if an address does not belong to any
	// sub-wallet.
	ErrAddressNotInWallet = errors.New("address is not in this wallet")
)

// Transfer validation errors.
var (
	// ErrNoDestinationGiven is returned if a transaction has no destinations.
	ErrNoDestinationGiven = errors.New("no destination given")
	// ErrAmountIsZero is returned if a destination amount is zero.
	ErrAmountIsZero = errors.New("amount is zero")
	// ErrNegativeValueGiven is returned if an amount or a mixin is negative.
	ErrNegativeValueGiven = errors.New("negative value given")
	// ErrConflictingPaymentIds is returned if the payment id embedded in an
	// integrated address differs from the one of the transaction.
	ErrConflictingPaymentIds = errors.New("conflicting payment ids given")
	// ErrFeeTooSmall is returned if no fee type is set or the fee is below the
	// network minimum.
	ErrFeeTooSmall = errors.New("fee is too small")
	// ErrNotEnoughBalance is returned if amount plus fee exceeds the available
	// balance.
	ErrNotEnoughBalance = errors.New("not enough balance")
	// ErrWillOverflow is returned if the total amount exceeds the maximum
	// representable amount.
	ErrWillOverflow = errors.New("total amount will overflow")
	// ErrMixinTooSmall is returned if the mixin is below the minimum allowed
	// at the current height.
	ErrMixinTooSmall = errors.New("mixin is too small")
	// ErrMixinTooBig is returned if the mixin is above the maximum allowed at
	// the current height.
	ErrMixinTooBig = errors.New("mixin is too big")
	// ErrPaymentIDWrongLength is returned if a payment id is not 64
	// characters long.
	ErrPaymentIDWrongLength = errors.New("payment id is the wrong length")
	// ErrPaymentIDInvalid is returned if a payment id is not hexadecimal.
	ErrPaymentIDInvalid = errors.New("payment id is invalid")
	// ErrUnknownSubWallet is returned if a source sub-wallet is unknown.
	ErrUnknownSubWallet = errors.New("sub-wallet not found")
)

// Daemon errors.
var (
	// ErrDaemonOffline is returned if the daemon cannot be reached.
	ErrDaemonOffline = errors.New("daemon is offline")
	// ErrNodeDead is returned if the daemon keeps failing and is considered
	// dead.
	ErrNodeDead = errors.New("node is dead")
	// ErrNetworkBlockCount is returned if the daemon reports an implausible
	// chain height.
	ErrNetworkBlockCount = errors.New("daemon reported an invalid network block count")
)
