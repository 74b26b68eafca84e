package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/lightningnetwork/lnd/clock"
	log "github.com/sirupsen/logrus"
)

// lockedTxTracker keeps the transactions sent by the wallet until they are
// buried under enough blocks. Every change is persisted before being applied
// in memory.
type lockedTxTracker struct {
	lock  sync.RWMutex
	txs   map[string]domain.LockedTransaction
	repo  ports.LockedTransactionRepository
	clock clock.Clock
}

func newLockedTxTracker(
	repo ports.LockedTransactionRepository, clk clock.Clock,
) *lockedTxTracker {
	return &lockedTxTracker{
		txs:   make(map[string]domain.LockedTransaction),
		repo:  repo,
		clock: clk,
	}
}

func (t *lockedTxTracker) restore(ctx context.Context) error {
	txs, err := t.repo.GetAllLockedTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore locked transactions: %w", err)
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.txs = make(map[string]domain.LockedTransaction, len(txs))
	for _, tx := range txs {
		t.txs[tx.Hash] = tx
	}
	return nil
}

func (t *lockedTxTracker) add(
	ctx context.Context, tx domain.LockedTransaction,
) error {
	if tx.SubmittedAt.IsZero() {
		tx.SubmittedAt = t.clock.Now()
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.txs[tx.Hash]; ok {
		return nil
	}
	if err := t.repo.AddLockedTransaction(ctx, tx); err != nil {
		return err
	}
	t.txs[tx.Hash] = tx
	return nil
}

// markConfirmed records the height of the blocks including the unconfirmed
// transactions. It returns the number of newly confirmed ones.
func (t *lockedTxTracker) markConfirmed(
	ctx context.Context, blocks []domain.Block,
) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	count := 0
	for hash, tx := range t.txs {
		if tx.IsConfirmed() {
			continue
		}
		for _, block := range blocks {
			if !block.ContainsTransaction(hash) {
				continue
			}
			tx.ConfirmedHeight = block.Height
			if err := t.repo.UpdateLockedTransaction(ctx, tx); err != nil {
				return count, err
			}
			t.txs[hash] = tx
			count++
			log.Debugf("transaction %s confirmed at height %d", hash, block.Height)
			break
		}
	}
	return count, nil
}

// unlock releases the transactions confirmed by at least depth blocks at the
// given height and returns them.
func (t *lockedTxTracker) unlock(
	ctx context.Context, height, depth uint64,
) ([]domain.LockedTransaction, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	unlocked := make([]domain.LockedTransaction, 0)
	for hash, tx := range t.txs {
		if !tx.CanUnlock(height, depth) {
			continue
		}
		if err := t.repo.DeleteLockedTransaction(ctx, hash); err != nil {
			return unlocked, err
		}
		delete(t.txs, hash)
		unlocked = append(unlocked, tx)
	}
	return unlocked, nil
}

// reserved returns, per sub-wallet, the amounts of the transactions not yet
// confirmed and of all the tracked ones.
func (t *lockedTxTracker) reserved() (pending, locked map[string]uint64) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	pending = make(map[string]uint64)
	locked = make(map[string]uint64)
	for _, tx := range t.txs {
		for addr, amount := range tx.Amounts {
			locked[addr] += amount
			if !tx.IsConfirmed() {
				pending[addr] += amount
			}
		}
	}
	return
}

// list returns the tracked transactions sorted by submission time.
func (t *lockedTxTracker) list() []domain.LockedTransaction {
	t.lock.RLock()
	defer t.lock.RUnlock()

	txs := make([]domain.LockedTransaction, 0, len(t.txs))
	for _, tx := range t.txs {
		txs = append(txs, tx)
	}
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].SubmittedAt.Equal(txs[j].SubmittedAt) {
			return txs[i].Hash < txs[j].Hash
		}
		return txs[i].SubmittedAt.Before(txs[j].SubmittedAt)
	})
	return txs
}
