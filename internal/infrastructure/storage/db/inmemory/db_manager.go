package inmemory

import (
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
)

type RepoManager struct {
	syncStateRepository         ports.SyncStateRepository
	lockedTransactionRepository ports.LockedTransactionRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		syncStateRepository:         NewSyncStateRepositoryImpl(),
		lockedTransactionRepository: NewLockedTransactionRepositoryImpl(),
	}
}

func (d *RepoManager) SyncStateRepository() ports.SyncStateRepository {
	return d.syncStateRepository
}

func (d *RepoManager) LockedTransactionRepository() ports.LockedTransactionRepository {
	return d.lockedTransactionRepository
}

func (d *RepoManager) Close() {}
