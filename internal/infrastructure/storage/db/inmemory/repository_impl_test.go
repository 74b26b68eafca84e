package inmemory_test

import (
	"context"
	"testing"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestSyncStateRepository(t *testing.T) {
	repo := inmemory.NewRepoManager().SyncStateRepository()

	state, err := repo.GetSyncState(ctx)
	require.NoError(t, err)
	require.Nil(t, state)

	checkpoints := []string{"a", "b"}
	err = repo.UpdateSyncState(ctx, domain.SyncState{
		Height: 10, Checkpoints: checkpoints,
	})
	require.NoError(t, err)
	checkpoints[0] = "z"

	state, err = repo.GetSyncState(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(10), state.Height)
	require.Equal(t, []string{"a", "b"}, state.Checkpoints)
}

func TestLockedTransactionRepository(t *testing.T) {
	repo := inmemory.NewRepoManager().LockedTransactionRepository()

	tx := domain.LockedTransaction{
		Hash:    "tx1",
		Amounts: map[string]uint64{"addr": 10},
	}
	require.NoError(t, repo.AddLockedTransaction(ctx, tx))
	require.NoError(t, repo.AddLockedTransaction(ctx, tx))

	tx.ConfirmedHeight = 100
	require.NoError(t, repo.UpdateLockedTransaction(ctx, tx))

	err := repo.UpdateLockedTransaction(ctx, domain.LockedTransaction{Hash: "tx2"})
	require.ErrorIs(t, err, inmemory.ErrLockedTransactionNotFound)

	txs, err := repo.GetAllLockedTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, uint64(100), txs[0].ConfirmedHeight)

	require.NoError(t, repo.DeleteLockedTransaction(ctx, "tx1"))
	txs, err = repo.GetAllLockedTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, txs)
}
