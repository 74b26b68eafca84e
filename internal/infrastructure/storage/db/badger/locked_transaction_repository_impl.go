package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type lockedTransactionRepositoryImpl struct {
	store *badgerhold.Store
}

// NewLockedTransactionRepositoryImpl initialize a badger implementation of
// the ports.LockedTransactionRepository
func NewLockedTransactionRepositoryImpl(
	store *badgerhold.Store,
) ports.LockedTransactionRepository {
	return lockedTransactionRepositoryImpl{store}
}

func (r lockedTransactionRepositoryImpl) AddLockedTransaction(
	ctx context.Context,
	tx domain.LockedTransaction,
) error {
	if err := r.store.Insert(tx.Hash, tx); err != nil {
		if !errors.Is(err, badgerhold.ErrKeyExists) {
			return err
		}
	}
	return nil
}

func (r lockedTransactionRepositoryImpl) UpdateLockedTransaction(
	ctx context.Context,
	tx domain.LockedTransaction,
) error {
	if err := r.store.Update(tx.Hash, tx); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLockedTransactionNotFound, tx.Hash)
		}
		return err
	}
	return nil
}

func (r lockedTransactionRepositoryImpl) DeleteLockedTransaction(
	ctx context.Context,
	hash string,
) error {
	err := r.store.Delete(hash, domain.LockedTransaction{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return err
	}
	return nil
}

func (r lockedTransactionRepositoryImpl) GetAllLockedTransactions(
	ctx context.Context,
) ([]domain.LockedTransaction, error) {
	var txs []domain.LockedTransaction
	if err := r.store.Find(&txs, nil); err != nil {
		return nil, err
	}
	return txs, nil
}
