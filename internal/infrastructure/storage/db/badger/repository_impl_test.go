package dbbadger_test

import (
	"context"
	"testing"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	dbbadger "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/storage/db/badger"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestSyncStateRepository(t *testing.T) {
	datadir := t.TempDir()

	repoManager, err := dbbadger.NewRepoManager(datadir, nil)
	require.NoError(t, err)

	repo := repoManager.SyncStateRepository()
	state, err := repo.GetSyncState(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	err = repo.UpdateSyncState(ctx, domain.SyncState{
		Height: 42, Checkpoints: []string{"a", "b"},
	})
	require.NoError(t, err)
	err = repo.UpdateSyncState(ctx, domain.SyncState{
		Height: 43, Checkpoints: []string{"a", "b", "c"},
	})
	require.NoError(t, err)
	repoManager.Close()

	// the state survives a restart
	repoManager, err = dbbadger.NewRepoManager(datadir, nil)
	require.NoError(t, err)
	defer repoManager.Close()

	state, err = repoManager.SyncStateRepository().GetSyncState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, uint64(43), state.Height)
	require.Equal(t, []string{"a", "b", "c"}, state.Checkpoints)
}

func TestLockedTransactionRepository(t *testing.T) {
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	defer repoManager.Close()

	repo := repoManager.LockedTransactionRepository()

	txs := []domain.LockedTransaction{
		{Hash: "tx1", Amounts: map[string]uint64{"a": 10}, Fee: 1},
		{Hash: "tx2", Amounts: map[string]uint64{"b": 20}, Fee: 1},
	}
	for _, tx := range txs {
		require.NoError(t, repo.AddLockedTransaction(ctx, tx))
	}
	require.NoError(t, repo.AddLockedTransaction(ctx, txs[0]))

	confirmed := txs[1]
	confirmed.ConfirmedHeight = 7
	require.NoError(t, repo.UpdateLockedTransaction(ctx, confirmed))

	err = repo.UpdateLockedTransaction(ctx, domain.LockedTransaction{Hash: "tx3"})
	require.ErrorIs(t, err, dbbadger.ErrLockedTransactionNotFound)

	all, err := repo.GetAllLockedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, repo.DeleteLockedTransaction(ctx, "tx1"))
	require.NoError(t, repo.DeleteLockedTransaction(ctx, "tx1"))

	all, err = repo.GetAllLockedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "tx2", all[0].Hash)
	require.Equal(t, uint64(7), all[0].ConfirmedHeight)
	require.Equal(t, map[string]uint64{"b": 20}, all[0].Amounts)
}
