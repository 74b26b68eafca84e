package ports

import (
	"context"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
)

// Daemon is the remote node the wallet polls for chain state. Init and the
// getters return domain.ErrDaemonOffline, domain.ErrNodeDead or
// domain.ErrNetworkBlockCount when the node cannot be used.
type Daemon interface {
	Init(ctx context.Context) (domain.ChainInfo, error)
	// FetchBlocks returns the blocks following the most recent checkpoint the
	// daemon knows, or starting at fromHeight if checkpoints are empty.
	FetchBlocks(
		ctx context.Context, fromHeight uint64, checkpoints []string,
	) ([]domain.Block, error)
	FetchFeeInfo(ctx context.Context) (domain.FeeSchedule, error)
	GetChainHeight(ctx context.Context) (domain.ChainInfo, error)
}
