package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/metronome"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/stats"
	"github.com/lightningnetwork/lnd/clock"
	"github.com/lightningnetwork/lnd/ticker"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	eventQueueMaxSize = 300

	DefaultSyncInterval          = time.Second
	DefaultDaemonUpdateInterval  = 10 * time.Second
	DefaultLockedTxCheckInterval = 30 * time.Second
)

// SyncCoordinator drives the wallet sync with three periodic tasks: block
// sync, daemon info refresh and locked transaction check. Their outcomes are
// merged into the single stream returned by Events.
type SyncCoordinator interface {
	WalletState

	// Start connects to the daemon and starts the periodic tasks. If the
	// daemon can not be used the coordinator stays stopped and the error is
	// returned, Start can be called again later.
	Start(ctx context.Context) error
	// Stop stops the periodic tasks and waits for the running ones to
	// finish. If called while starting, it waits for the start attempt to
	// give up with ErrStartCancelled. It is a no-op otherwise.
	Stop()
	// Sync fetches and processes the blocks following the wallet height.
	// Errors are reported in the result, never returned.
	Sync(ctx context.Context) SyncResult
	State() domain.SchedulerState
	// IsSynced returns whether the wallet caught up with the daemon at
	// least once.
	IsSynced() bool
	Events() <-chan SyncEvent
	WalletHeight() uint64
	// TrackTransaction reserves the amounts of a sent transaction until it
	// is buried under the confirmation depth.
	TrackTransaction(ctx context.Context, tx domain.LockedTransaction) error
	LockedTransactions() []domain.LockedTransaction
}

// SyncConfig holds the parameters of the sync tasks. Zero intervals are
// replaced with the defaults.
type SyncConfig struct {
	Network               domain.NetworkParams
	SyncInterval          time.Duration
	DaemonUpdateInterval  time.Duration
	LockedTxCheckInterval time.Duration
	// StartHeight is the height the scan starts from if the wallet never
	// synced before.
	StartHeight uint64

	Clock clock.Clock
	// NewTicker, if set, returns the tick source of every task.
	NewTicker func(task string, interval time.Duration) ticker.Ticker
}

type syncTask struct {
	name     string
	interval time.Duration
	run      metronome.Task
}

type syncCoordinator struct {
	cfg        SyncConfig
	daemon     ports.Daemon
	subWallets ports.SubWallets
	repo       ports.RepoManager
	lockedTxs  *lockedTxTracker

	// lock guards the lifecycle fields.
	lock       sync.Mutex
	state      domain.SchedulerState
	sessionID  uuid.UUID
	handles    []*metronome.Handle
	forwarders sync.WaitGroup
	// stopRequested is set by a Stop received while starting, startDone is
	// closed once that start attempt is over.
	stopRequested bool
	startDone     chan struct{}

	synced atomic.Bool

	// syncLock serializes block syncs and guards cursor.
	syncLock     sync.Mutex
	cursor       domain.SyncState
	walletHeight atomic.Uint64

	snapshotLock sync.Mutex
	snapshot     atomic.Pointer[domain.SubWalletSnapshot]
	fees         atomic.Pointer[domain.FeeSchedule]
	nodeInfo     atomic.Pointer[domain.ChainInfo]

	events chan SyncEvent
}

func NewSyncCoordinator(
	cfg SyncConfig, daemon ports.Daemon, subWallets ports.SubWallets,
	repo ports.RepoManager,
) (SyncCoordinator, error) {
	if daemon == nil {
		return nil, ErrMissingDaemon
	}
	if subWallets == nil {
		return nil, ErrMissingSubWallets
	}
	if repo == nil {
		return nil, ErrMissingRepoManager
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.DaemonUpdateInterval <= 0 {
		cfg.DaemonUpdateInterval = DefaultDaemonUpdateInterval
	}
	if cfg.LockedTxCheckInterval <= 0 {
		cfg.LockedTxCheckInterval = DefaultLockedTxCheckInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}

	s := &syncCoordinator{
		cfg:        cfg,
		daemon:     daemon,
		subWallets: subWallets,
		repo:       repo,
		lockedTxs:  newLockedTxTracker(repo.LockedTransactionRepository(), cfg.Clock),
		cursor:     domain.SyncState{Height: cfg.StartHeight},
		events:     make(chan SyncEvent, eventQueueMaxSize),
	}
	s.walletHeight.Store(cfg.StartHeight)
	s.fees.Store(&domain.FeeSchedule{})
	s.nodeInfo.Store(&domain.ChainInfo{})
	return s, nil
}

func (s *syncCoordinator) Start(ctx context.Context) error {
	s.lock.Lock()
	if s.state != domain.SchedulerStopped {
		state := s.state
		s.lock.Unlock()
		log.Warnf("wallet sync: start requested while %s", state)
		return ErrAlreadyStarted
	}
	s.state = domain.SchedulerStarting
	s.stopRequested = false
	done := make(chan struct{})
	s.startDone = done
	s.lock.Unlock()
	defer close(done)

	if err := s.start(ctx); err != nil {
		s.setState(domain.SchedulerStopped)
		if errors.Is(err, ErrStartCancelled) {
			log.Info("wallet sync: stopped while starting")
		} else {
			log.WithError(err).Warn("wallet sync: failed to start")
		}
		return err
	}
	return nil
}

func (s *syncCoordinator) start(ctx context.Context) error {
	info, err := s.daemon.Init(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize daemon: %w", err)
	}
	s.nodeInfo.Store(&info)
	stats.SetNetworkHeight(info.Height)

	if s.isStopRequested() {
		return ErrStartCancelled
	}

	if err := s.restore(ctx); err != nil {
		return err
	}
	if err := s.updateFees(ctx); err != nil {
		log.WithError(err).Warn("wallet sync: failed to fetch fee info")
	}
	if err := s.publishSnapshot(); err != nil {
		return err
	}

	sessionID := uuid.New()
	tasks := []syncTask{
		{BlockSyncTask, s.cfg.SyncInterval, s.blockSyncTask},
		{DaemonUpdateTask, s.cfg.DaemonUpdateInterval, s.daemonUpdateTask},
		{LockedTxCheckTask, s.cfg.LockedTxCheckInterval, s.lockedTxCheckTask},
	}
	handles := make([]*metronome.Handle, len(tasks))

	g := new(errgroup.Group)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			opts := []metronome.Option{
				metronome.WithName(task.name),
				metronome.WithClock(s.cfg.Clock),
			}
			if s.cfg.NewTicker != nil {
				opts = append(
					opts, metronome.WithTicker(s.cfg.NewTicker(task.name, task.interval)),
				)
			}
			h, err := metronome.Start(task.interval, task.run, opts...)
			if err != nil {
				return fmt.Errorf("failed to start %s: %w", task.name, err)
			}
			handles[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		stopHandles(handles)
		return err
	}

	s.lock.Lock()
	if s.stopRequested {
		s.lock.Unlock()
		stopHandles(handles)
		return ErrStartCancelled
	}
	defer s.lock.Unlock()

	s.sessionID = sessionID
	s.handles = handles
	for _, h := range handles {
		s.forwarders.Add(1)
		go s.forwardEvents(sessionID, h)
	}
	s.state = domain.SchedulerRunning

	log.WithField("session", sessionID).Infof(
		"wallet sync started at height %d, daemon at height %d",
		s.WalletHeight(), info.Height,
	)
	return nil
}

func (s *syncCoordinator) Stop() {
	s.lock.Lock()
	switch s.state {
	case domain.SchedulerRunning:
	case domain.SchedulerStarting:
		// The start attempt sees the request and stops its own tasks.
		s.stopRequested = true
		done := s.startDone
		s.lock.Unlock()
		<-done
		return
	default:
		s.lock.Unlock()
		return
	}
	s.state = domain.SchedulerStopping
	handles := s.handles
	sessionID := s.sessionID
	s.handles = nil
	s.lock.Unlock()

	stopHandles(handles)
	s.forwarders.Wait()

	s.setState(domain.SchedulerStopped)
	log.WithField("session", sessionID).Info("wallet sync stopped")
}

func (s *syncCoordinator) Sync(ctx context.Context) (result SyncResult) {
	s.syncLock.Lock()
	defer s.syncLock.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result = SyncResult{
				Height: s.cursor.Height,
				Err:    fmt.Errorf("block sync panicked: %v", r),
			}
			log.WithError(result.Err).Error("wallet sync")
		}
	}()

	state := domain.SyncState{
		Height:      s.cursor.Height,
		Checkpoints: append([]string(nil), s.cursor.Checkpoints...),
	}

	blocks, err := s.daemon.FetchBlocks(
		ctx, state.NextHeight(), state.LastCheckpoints(),
	)
	if err != nil {
		log.WithError(err).Warn("wallet sync: failed to fetch blocks")
		return SyncResult{Height: state.Height, Err: err}
	}

	newBlocks := 0
	var processErr error
	for _, block := range blocks {
		if !state.IsNew(block.Height) {
			if known, ok := state.CheckpointAt(block.Height); ok && known != block.Hash {
				log.WithFields(log.Fields{
					"height":   block.Height,
					"known":    known,
					"received": block.Hash,
				}).Warn("wallet sync: block hash differs from processed one, chain reorg is not rolled back")
			}
			continue
		}
		if err := s.subWallets.ProcessBlock(ctx, block); err != nil {
			processErr = fmt.Errorf(
				"failed to process block %d: %w", block.Height, err,
			)
			break
		}
		state.Advance(block.Height, block.Hash)
		newBlocks++
	}

	if _, err := s.lockedTxs.markConfirmed(ctx, blocks); err != nil {
		log.WithError(err).Warn("wallet sync: failed to update locked transactions")
	}

	if newBlocks > 0 {
		if err := s.repo.SyncStateRepository().UpdateSyncState(ctx, state); err != nil {
			err = fmt.Errorf("failed to persist sync state: %w", err)
			log.WithError(err).Warn("wallet sync")
			return SyncResult{Height: s.cursor.Height, Err: err}
		}
		s.cursor = state
		s.walletHeight.Store(state.Height)
		stats.SetWalletHeight(state.Height)
	}

	if err := s.publishSnapshot(); err != nil && processErr == nil {
		processErr = err
	}
	if processErr != nil {
		log.WithError(processErr).Warn("wallet sync")
		return SyncResult{Height: state.Height, NewBlocks: newBlocks, Err: processErr}
	}

	if info := s.NodeInfo(); info.Height > 0 && state.NextHeight() > info.Height {
		if s.synced.CompareAndSwap(false, true) {
			log.Infof("wallet synced at height %d", state.Height)
		}
	}
	if newBlocks > 0 {
		log.Debugf(
			"wallet sync: processed %d blocks, height %d", newBlocks, state.Height,
		)
	}

	return SyncResult{
		Synced:    s.synced.Load(),
		Height:    state.Height,
		NewBlocks: newBlocks,
	}
}

func (s *syncCoordinator) State() domain.SchedulerState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

func (s *syncCoordinator) IsSynced() bool {
	return s.synced.Load()
}

func (s *syncCoordinator) Events() <-chan SyncEvent {
	return s.events
}

func (s *syncCoordinator) WalletHeight() uint64 {
	return s.walletHeight.Load()
}

func (s *syncCoordinator) Snapshot() *domain.SubWalletSnapshot {
	return s.snapshot.Load()
}

func (s *syncCoordinator) FeeSchedule() domain.FeeSchedule {
	return *s.fees.Load()
}

func (s *syncCoordinator) NodeInfo() domain.ChainInfo {
	return *s.nodeInfo.Load()
}

func (s *syncCoordinator) TrackTransaction(
	ctx context.Context, tx domain.LockedTransaction,
) error {
	if tx.SubmittedHeight == 0 {
		tx.SubmittedHeight = s.WalletHeight()
	}
	if err := s.lockedTxs.add(ctx, tx); err != nil {
		return fmt.Errorf("failed to track transaction %s: %w", tx.Hash, err)
	}
	stats.SetLockedTransactions(len(s.lockedTxs.list()))
	return s.publishSnapshot()
}

func (s *syncCoordinator) LockedTransactions() []domain.LockedTransaction {
	return s.lockedTxs.list()
}

func (s *syncCoordinator) blockSyncTask(ctx context.Context) error {
	return s.Sync(ctx).Err
}

func (s *syncCoordinator) daemonUpdateTask(ctx context.Context) error {
	info, err := s.daemon.GetChainHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain height: %w", err)
	}
	s.nodeInfo.Store(&info)
	stats.SetNetworkHeight(info.Height)

	return s.updateFees(ctx)
}

func (s *syncCoordinator) lockedTxCheckTask(ctx context.Context) error {
	height := s.NodeInfo().Height
	unlocked, err := s.lockedTxs.unlock(
		ctx, height, s.cfg.Network.ConfirmationDepth,
	)
	for _, tx := range unlocked {
		log.Infof(
			"transaction %s unlocked at height %d, confirmed at %d",
			tx.Hash, height, tx.ConfirmedHeight,
		)
	}
	stats.SetLockedTransactions(len(s.lockedTxs.list()))

	if len(unlocked) > 0 {
		if err := s.publishSnapshot(); err != nil {
			return err
		}
	}
	return err
}

func (s *syncCoordinator) updateFees(ctx context.Context) error {
	fees, err := s.daemon.FetchFeeInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch fee info: %w", err)
	}
	if fees.UpdatedAt.IsZero() {
		fees.UpdatedAt = s.cfg.Clock.Now()
	}
	s.fees.Store(&fees)
	return nil
}

// restore loads the persisted cursor and locked transactions.
func (s *syncCoordinator) restore(ctx context.Context) error {
	stored, err := s.repo.SyncStateRepository().GetSyncState(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore sync state: %w", err)
	}
	if stored == nil {
		stored = &domain.SyncState{Height: s.cfg.StartHeight}
	}

	s.syncLock.Lock()
	s.cursor = *stored
	s.walletHeight.Store(stored.Height)
	s.syncLock.Unlock()
	stats.SetWalletHeight(stored.Height)

	return s.lockedTxs.restore(ctx)
}

// publishSnapshot builds a new snapshot of the sub-wallets at the wallet
// height and swaps it with the current one.
func (s *syncCoordinator) publishSnapshot() error {
	s.snapshotLock.Lock()
	defer s.snapshotLock.Unlock()

	height := s.WalletHeight()
	keys := s.subWallets.PublicSpendKeys()
	addresses := make([]string, 0, len(keys))
	for addr := range keys {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	balances, err := s.subWallets.Balance(height, addresses)
	if err != nil {
		return fmt.Errorf("failed to get sub-wallet balances: %w", err)
	}
	pending, locked := s.lockedTxs.reserved()

	entries := make([]domain.SubWalletEntry, 0, len(addresses))
	for _, addr := range addresses {
		balance := balances[addr]
		if reserved := pending[addr]; reserved >= balance {
			balance = 0
		} else {
			balance -= reserved
		}
		entries = append(entries, domain.SubWalletEntry{
			Address:        addr,
			PublicSpendKey: keys[addr],
			Balance:        balance,
			Locked:         locked[addr],
		})
	}

	s.snapshot.Store(domain.NewSubWalletSnapshot(height, entries))
	return nil
}

func (s *syncCoordinator) forwardEvents(sessionID uuid.UUID, h *metronome.Handle) {
	defer s.forwarders.Done()

	for event := range h.Events() {
		stats.RecordTick(
			event.Name, event.Type == metronome.TickFailed, event.Duration,
		)
		if event.Type == metronome.TickFailed {
			log.WithError(event.Err).Debugf("%s tick failed", event.Name)
		}

		select {
		case s.events <- SyncEvent{SessionID: sessionID, Event: event}:
		default:
			stats.RecordDroppedEvent()
			log.Debugf("event queue full, dropping %s event", event.Name)
		}
	}
}

func (s *syncCoordinator) isStopRequested() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stopRequested
}

// stopHandles stops the given metronomes and waits for their running ticks.
func stopHandles(handles []*metronome.Handle) {
	for _, h := range handles {
		if h != nil {
			h.Stop()
		}
	}
	for _, h := range handles {
		if h != nil {
			h.Wait()
		}
	}
}

func (s *syncCoordinator) setState(state domain.SchedulerState) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state = state
}
