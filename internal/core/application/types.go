package application

import (
	"github.com/google/uuid"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/metronome"
	"github.com/shopspring/decimal"
)

const (
	BlockSyncTask     = "block-sync"
	DaemonUpdateTask  = "daemon-update"
	LockedTxCheckTask = "locked-tx-check"
)

// SyncEvent is the outcome of a tick of one of the sync tasks. SessionID
// identifies the start/stop cycle the tick belongs to.
type SyncEvent struct {
	SessionID uuid.UUID
	metronome.Event
}

// Task returns the name of the sync task that emitted the event.
func (e SyncEvent) Task() string {
	return e.Name
}

// SyncResult is the outcome of a block sync.
type SyncResult struct {
	Synced    bool
	Height    uint64
	NewBlocks int
	Err       error
}

// ValidatedTransaction is a transaction request that passed validation,
// along with the amounts computed while validating it.
type ValidatedTransaction struct {
	Request domain.TransactionRequest
	// Amount is the sum of the destination amounts.
	Amount uint64
	// Fee is the fixed fee, zero for a fee per byte.
	Fee     uint64
	NodeFee uint64
	Total   decimal.Decimal
	// Snapshot is the view of the sub-wallets the request was validated
	// against.
	Snapshot *domain.SubWalletSnapshot
}

// WalletState gives read access to the state maintained by the sync.
type WalletState interface {
	Snapshot() *domain.SubWalletSnapshot
	FeeSchedule() domain.FeeSchedule
	NodeInfo() domain.ChainInfo
}
