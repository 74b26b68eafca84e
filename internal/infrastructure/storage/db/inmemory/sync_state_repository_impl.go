package inmemory

import (
	"context"
	"sync"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
)

type SyncStateRepositoryImpl struct {
	locker sync.RWMutex
	state  *domain.SyncState
}

// NewSyncStateRepositoryImpl returns a new empty SyncStateRepositoryImpl
func NewSyncStateRepositoryImpl() ports.SyncStateRepository {
	return &SyncStateRepositoryImpl{}
}

func (r *SyncStateRepositoryImpl) GetSyncState(
	ctx context.Context,
) (*domain.SyncState, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	if r.state == nil {
		return nil, nil
	}
	state := copySyncState(*r.state)
	return &state, nil
}

func (r *SyncStateRepositoryImpl) UpdateSyncState(
	ctx context.Context,
	state domain.SyncState,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	s := copySyncState(state)
	r.state = &s
	return nil
}

func copySyncState(state domain.SyncState) domain.SyncState {
	return domain.SyncState{
		Height:      state.Height,
		Checkpoints: append([]string(nil), state.Checkpoints...),
	}
}
