package dbbadger

import (
	"context"
	"errors"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const syncStateKey = "syncState"

type syncStateRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSyncStateRepositoryImpl initialize a badger implementation of the
// ports.SyncStateRepository
func NewSyncStateRepositoryImpl(store *badgerhold.Store) ports.SyncStateRepository {
	return syncStateRepositoryImpl{store}
}

func (r syncStateRepositoryImpl) GetSyncState(
	ctx context.Context,
) (*domain.SyncState, error) {
	var state domain.SyncState
	if err := r.store.Get(syncStateKey, &state); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r syncStateRepositoryImpl) UpdateSyncState(
	ctx context.Context,
	state domain.SyncState,
) error {
	return r.store.Upsert(syncStateKey, state)
}
