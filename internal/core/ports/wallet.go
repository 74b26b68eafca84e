package ports

import (
	"context"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
)

// SubWallets holds the key material and the ledger of the accounts of a
// wallet.
type SubWallets interface {
	// PublicSpendKeys returns the public spend key of every sub-wallet,
	// indexed by sub-wallet address.
	PublicSpendKeys() map[string]domain.Key
	// Balance returns the balance spendable at height of the given
	// sub-wallets, or of all of them if none is given.
	Balance(height uint64, addresses []string) (map[string]uint64, error)
	// ProcessBlock records the outputs received and the inputs spent by the
	// sub-wallets in block. Processing the same block twice has no effect.
	ProcessBlock(ctx context.Context, block domain.Block) error
}

// TransactionSender builds, signs and relays a validated transaction.
type TransactionSender interface {
	SendTransaction(
		ctx context.Context, req domain.TransactionRequest,
	) (SentTransaction, error)
}

// SentTransaction is the outcome of TransactionSender.SendTransaction.
type SentTransaction struct {
	Hash string
	Fee  uint64
	// Amounts is what was taken from every source sub-wallet, change
	// excluded.
	Amounts map[string]uint64
}
