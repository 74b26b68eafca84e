package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
)

type LockedTransactionRepositoryImpl struct {
	locker sync.RWMutex
	txs    map[string]domain.LockedTransaction
}

// NewLockedTransactionRepositoryImpl returns a new empty
// LockedTransactionRepositoryImpl
func NewLockedTransactionRepositoryImpl() ports.LockedTransactionRepository {
	return &LockedTransactionRepositoryImpl{
		txs: make(map[string]domain.LockedTransaction),
	}
}

func (r *LockedTransactionRepositoryImpl) AddLockedTransaction(
	ctx context.Context,
	tx domain.LockedTransaction,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.txs[tx.Hash]; ok {
		return nil
	}
	r.txs[tx.Hash] = copyLockedTransaction(tx)
	return nil
}

func (r *LockedTransactionRepositoryImpl) UpdateLockedTransaction(
	ctx context.Context,
	tx domain.LockedTransaction,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	if _, ok := r.txs[tx.Hash]; !ok {
		return fmt.Errorf("%w: %s", ErrLockedTransactionNotFound, tx.Hash)
	}
	r.txs[tx.Hash] = copyLockedTransaction(tx)
	return nil
}

func (r *LockedTransactionRepositoryImpl) DeleteLockedTransaction(
	ctx context.Context,
	hash string,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	delete(r.txs, hash)
	return nil
}

func (r *LockedTransactionRepositoryImpl) GetAllLockedTransactions(
	ctx context.Context,
) ([]domain.LockedTransaction, error) {
	r.locker.RLock()
	defer r.locker.RUnlock()

	txs := make([]domain.LockedTransaction, 0, len(r.txs))
	for _, tx := range r.txs {
		txs = append(txs, copyLockedTransaction(tx))
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Hash < txs[j].Hash
	})
	return txs, nil
}

func copyLockedTransaction(tx domain.LockedTransaction) domain.LockedTransaction {
	amounts := make(map[string]uint64, len(tx.Amounts))
	for addr, amount := range tx.Amounts {
		amounts[addr] = amount
	}
	tx.Amounts = amounts
	return tx
}
