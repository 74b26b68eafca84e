package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

// WalletService is the entry point of the wallet: it runs the sync and
// validates the transactions before handing them to the sender.
type WalletService interface {
	Start(ctx context.Context) error
	Stop()
	IsSynced() bool
	State() domain.SchedulerState
	Events() <-chan SyncEvent
	// Balance returns the unlocked and locked balance of the given
	// sub-wallets, or of all of them if none is given.
	Balance(subWallets ...string) (unlocked, locked uint64, err error)
	ValidateTransaction(req domain.TransactionRequest) error
	// SendTransaction validates req and hands it to the sender. The amounts
	// sent stay reserved until the transaction is buried under the
	// confirmation depth.
	SendTransaction(
		ctx context.Context, req domain.TransactionRequest,
	) (string, error)
	NodeInfo() domain.ChainInfo
	FeeSchedule() domain.FeeSchedule
	WalletHeight() uint64
	LockedTransactions() []domain.LockedTransaction
}

type walletService struct {
	sync   SyncCoordinator
	engine ValidationEngine
	sender ports.TransactionSender

	// sendLock prevents two sends from spending the same snapshot.
	sendLock sync.Mutex
}

// NewWalletService returns a wallet service. sender is optional, without
// it SendTransaction fails with ErrSenderNotConfigured.
func NewWalletService(
	coordinator SyncCoordinator, engine ValidationEngine,
	sender ports.TransactionSender,
) WalletService {
	return &walletService{
		sync:   coordinator,
		engine: engine,
		sender: sender,
	}
}

func (w *walletService) Start(ctx context.Context) error {
	return w.sync.Start(ctx)
}

func (w *walletService) Stop() {
	w.sync.Stop()
}

func (w *walletService) IsSynced() bool {
	return w.sync.IsSynced()
}

func (w *walletService) State() domain.SchedulerState {
	return w.sync.State()
}

func (w *walletService) Events() <-chan SyncEvent {
	return w.sync.Events()
}

func (w *walletService) Balance(
	subWallets ...string,
) (unlocked, locked uint64, err error) {
	return w.sync.Snapshot().Balance(subWallets...)
}

func (w *walletService) ValidateTransaction(
	req domain.TransactionRequest,
) error {
	_, err := w.engine.ValidateTransaction(req).Unpack()
	return err
}

func (w *walletService) SendTransaction(
	ctx context.Context, req domain.TransactionRequest,
) (string, error) {
	if w.sender == nil {
		return "", ErrSenderNotConfigured
	}

	w.sendLock.Lock()
	defer w.sendLock.Unlock()

	validated, err := w.engine.ValidateTransaction(req).Unpack()
	if err != nil {
		return "", err
	}

	sent, err := w.sender.SendTransaction(ctx, validated.Request)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	amounts := sent.Amounts
	if len(amounts) == 0 {
		amounts = allocateAmounts(validated)
	}
	fee := sent.Fee
	if fee == 0 {
		fee = validated.Fee
	}

	tx := domain.LockedTransaction{
		Hash:    sent.Hash,
		Amounts: amounts,
		Fee:     fee,
	}
	// The transaction is relayed already, it must not be reported as failed.
	if err := w.sync.TrackTransaction(ctx, tx); err != nil {
		log.WithError(err).Warnf("transaction %s sent but not tracked", sent.Hash)
	}

	log.Infof("sent transaction %s", sent.Hash)
	return sent.Hash, nil
}

func (w *walletService) NodeInfo() domain.ChainInfo {
	return w.sync.NodeInfo()
}

func (w *walletService) FeeSchedule() domain.FeeSchedule {
	return w.sync.FeeSchedule()
}

func (w *walletService) WalletHeight() uint64 {
	return w.sync.WalletHeight()
}

func (w *walletService) LockedTransactions() []domain.LockedTransaction {
	return w.sync.LockedTransactions()
}

// allocateAmounts splits the total of a validated transaction among its
// source sub-wallets, taking as much as possible from each in order.
func allocateAmounts(tx ValidatedTransaction) map[string]uint64 {
	sources := tx.Request.SourceSubWallets
	if len(sources) == 0 {
		sources = tx.Snapshot.Addresses()
	}

	left := tx.Total.BigInt().Uint64()
	amounts := make(map[string]uint64)
	for _, addr := range sources {
		if left == 0 {
			break
		}
		if _, ok := amounts[addr]; ok {
			continue
		}
		entry, ok := tx.Snapshot.Entry(addr)
		if !ok || entry.Balance == 0 {
			continue
		}
		amount := entry.Balance
		if amount > left {
			amount = left
		}
		amounts[addr] = amount
		left -= amount
	}
	return amounts
}
