package ports

import (
	"context"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
)

// RepoManager gives access to the repositories of the scheduler state.
type RepoManager interface {
	SyncStateRepository() SyncStateRepository
	LockedTransactionRepository() LockedTransactionRepository
	Close()
}

type SyncStateRepository interface {
	// GetSyncState returns the stored cursor, or nil if none is stored yet.
	GetSyncState(ctx context.Context) (*domain.SyncState, error)
	UpdateSyncState(ctx context.Context, state domain.SyncState) error
}

type LockedTransactionRepository interface {
	AddLockedTransaction(ctx context.Context, tx domain.LockedTransaction) error
	UpdateLockedTransaction(ctx context.Context, tx domain.LockedTransaction) error
	DeleteLockedTransaction(ctx context.Context, hash string) error
	GetAllLockedTransactions(ctx context.Context) ([]domain.LockedTransaction, error)
}
