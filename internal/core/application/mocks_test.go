package application_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/lightningnetwork/lnd/ticker"
	"github.com/stretchr/testify/mock"
)

// **** Daemon ****

type mockDaemon struct {
	mock.Mock
}

func (m *mockDaemon) Init(ctx context.Context) (domain.ChainInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ChainInfo), args.Error(1)
}

func (m *mockDaemon) FetchBlocks(
	ctx context.Context, fromHeight uint64, checkpoints []string,
) ([]domain.Block, error) {
	args := m.Called(ctx, fromHeight, checkpoints)

	var res []domain.Block
	if a := args.Get(0); a != nil {
		res = a.([]domain.Block)
	}
	return res, args.Error(1)
}

func (m *mockDaemon) FetchFeeInfo(ctx context.Context) (domain.FeeSchedule, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.FeeSchedule), args.Error(1)
}

func (m *mockDaemon) GetChainHeight(ctx context.Context) (domain.ChainInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ChainInfo), args.Error(1)
}

// **** SubWallets ****

type mockSubWallets struct {
	mock.Mock
}

func (m *mockSubWallets) PublicSpendKeys() map[string]domain.Key {
	args := m.Called()

	var res map[string]domain.Key
	if a := args.Get(0); a != nil {
		res = a.(map[string]domain.Key)
	}
	return res
}

func (m *mockSubWallets) Balance(
	height uint64, addresses []string,
) (map[string]uint64, error) {
	args := m.Called(height, addresses)

	var res map[string]uint64
	if a := args.Get(0); a != nil {
		res = a.(map[string]uint64)
	}
	return res, args.Error(1)
}

func (m *mockSubWallets) ProcessBlock(ctx context.Context, block domain.Block) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

// **** TransactionSender ****

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendTransaction(
	ctx context.Context, req domain.TransactionRequest,
) (ports.SentTransaction, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.SentTransaction), args.Error(1)
}

// **** WalletState ****

type fakeWalletState struct {
	snapshot atomic.Pointer[domain.SubWalletSnapshot]
	fees     domain.FeeSchedule
	info     domain.ChainInfo
}

func newFakeWalletState(
	snapshot *domain.SubWalletSnapshot, fees domain.FeeSchedule,
	info domain.ChainInfo,
) *fakeWalletState {
	s := &fakeWalletState{fees: fees, info: info}
	s.snapshot.Store(snapshot)
	return s
}

func (s *fakeWalletState) Snapshot() *domain.SubWalletSnapshot {
	return s.snapshot.Load()
}

func (s *fakeWalletState) FeeSchedule() domain.FeeSchedule {
	return s.fees
}

func (s *fakeWalletState) NodeInfo() domain.ChainInfo {
	return s.info
}

// **** Tickers ****

// forceTickers creates the tick sources of the sync tasks and lets tests
// fire them.
type forceTickers struct {
	lock    sync.Mutex
	tickers map[string]*ticker.Force
}

func newForceTickers() *forceTickers {
	return &forceTickers{tickers: make(map[string]*ticker.Force)}
}

func (f *forceTickers) newTicker(task string, _ time.Duration) ticker.Ticker {
	f.lock.Lock()
	defer f.lock.Unlock()

	t := ticker.NewForce(time.Hour)
	f.tickers[task] = t
	return t
}

func (f *forceTickers) tick(task string) {
	f.lock.Lock()
	t := f.tickers[task]
	f.lock.Unlock()

	t.Force <- time.Now()
}

func (f *forceTickers) count() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.tickers)
}
