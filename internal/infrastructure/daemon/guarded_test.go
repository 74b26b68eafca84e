package daemon_test

import (
	"context"
	"testing"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/daemon"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/circuitbreaker"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestGuardedDaemonChainInfo(t *testing.T) {
	tests := []struct {
		name string
		info domain.ChainInfo
		err  error
	}{
		{"valid", domain.ChainInfo{Height: 100, NetworkHeight: 100}, nil},
		{"behind network", domain.ChainInfo{Height: 10, NetworkHeight: 100}, nil},
		{
			"zero network height",
			domain.ChainInfo{Height: 10},
			domain.ErrNetworkBlockCount,
		},
		{
			"beyond network height",
			domain.ChainInfo{Height: 100 + daemon.MaxHeightDrift + 1, NetworkHeight: 100},
			domain.ErrNetworkBlockCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &mockDaemon{}
			inner.On("Init", mock.Anything).Return(tt.info, nil)
			inner.On("GetChainHeight", mock.Anything).Return(tt.info, nil)

			guarded := daemon.NewGuardedDaemon(inner, 1000)

			_, err := guarded.Init(ctx)
			_, err2 := guarded.GetChainHeight(ctx)
			if tt.err == nil {
				require.NoError(t, err)
				require.NoError(t, err2)
				return
			}
			require.ErrorIs(t, err, tt.err)
			require.ErrorIs(t, err2, tt.err)
		})
	}
}

func TestGuardedDaemonNodeDead(t *testing.T) {
	inner := &mockDaemon{}
	inner.On("FetchBlocks", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrDaemonOffline)

	guarded := daemon.NewGuardedDaemon(inner, 1000)

	for i := 0; i <= circuitbreaker.MaxNumOfFailingRequests; i++ {
		_, err := guarded.FetchBlocks(ctx, 0, nil)
		require.ErrorIs(t, err, domain.ErrDaemonOffline)
	}

	_, err := guarded.FetchBlocks(ctx, 0, nil)
	require.ErrorIs(t, err, domain.ErrNodeDead)
	inner.AssertNumberOfCalls(t, "FetchBlocks", circuitbreaker.MaxNumOfFailingRequests+1)
}

func TestGuardedDaemonPassThrough(t *testing.T) {
	fees := domain.FeeSchedule{Address: "node", Amount: 10}
	blocks := []domain.Block{{Hash: "h1", Height: 1}}

	inner := &mockDaemon{}
	inner.On("FetchFeeInfo", mock.Anything).Return(fees, nil)
	inner.On("FetchBlocks", mock.Anything, uint64(1), []string{"h0"}).Return(blocks, nil)

	guarded := daemon.NewGuardedDaemon(inner, 1000)

	gotFees, err := guarded.FetchFeeInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, fees, gotFees)

	gotBlocks, err := guarded.FetchBlocks(ctx, 1, []string{"h0"})
	require.NoError(t, err)
	require.Equal(t, blocks, gotBlocks)
}
