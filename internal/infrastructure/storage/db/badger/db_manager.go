package dbbadger

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	syncStateDir         = "sync"
	lockedTransactionDir = "transactions"
)

type repoManager struct {
	syncStore *badgerhold.Store
	txStore   *badgerhold.Store

	syncStateRepository         ports.SyncStateRepository
	lockedTransactionRepository ports.LockedTransactionRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores of the
// sync state and of the locked transactions in baseDbDir.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	syncDb, err := createDb(filepath.Join(baseDbDir, syncStateDir), logger)
	if err != nil {
		return nil, fmt.Errorf("opening sync db: %w", err)
	}

	txDb, err := createDb(filepath.Join(baseDbDir, lockedTransactionDir), logger)
	if err != nil {
		syncDb.Close()
		return nil, fmt.Errorf("opening transactions db: %w", err)
	}

	return &repoManager{
		syncStore:                   syncDb,
		txStore:                     txDb,
		syncStateRepository:         NewSyncStateRepositoryImpl(syncDb),
		lockedTransactionRepository: NewLockedTransactionRepositoryImpl(txDb),
	}, nil
}

func (r *repoManager) SyncStateRepository() ports.SyncStateRepository {
	return r.syncStateRepository
}

func (r *repoManager) LockedTransactionRepository() ports.LockedTransactionRepository {
	return r.lockedTransactionRepository
}

func (r *repoManager) Close() {
	r.syncStore.Close()
	r.txStore.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if dbDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dbDir)
		opts.Compression = options.ZSTD
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
