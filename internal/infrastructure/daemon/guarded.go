// Package daemon decorates a ports.Daemon with the checks protecting the
// wallet from an unreliable node.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/circuitbreaker"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	DefaultRateLimit = 20
	// MaxHeightDrift is how far the height of the node may be above the
	// network one before it is considered bogus.
	MaxHeightDrift = 100
)

type guardedDaemon struct {
	daemon  ports.Daemon
	breaker *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter
}

// NewGuardedDaemon returns a daemon making at most rateLimit requests per
// second to the wrapped one. Once the node keeps failing, requests are
// rejected with domain.ErrNodeDead until the breaker closes again. Chain
// infos with an implausible height are rejected with
// domain.ErrNetworkBlockCount.
func NewGuardedDaemon(daemon ports.Daemon, rateLimit int) ports.Daemon {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}
	return &guardedDaemon{
		daemon:  daemon,
		breaker: circuitbreaker.NewCircuitBreaker("daemon"),
		limiter: ratelimit.New(rateLimit),
	}
}

func (g *guardedDaemon) Init(ctx context.Context) (domain.ChainInfo, error) {
	return execute(g, func() (domain.ChainInfo, error) {
		info, err := g.daemon.Init(ctx)
		if err != nil {
			return info, err
		}
		return info, checkChainInfo(info)
	})
}

func (g *guardedDaemon) FetchBlocks(
	ctx context.Context, fromHeight uint64, checkpoints []string,
) ([]domain.Block, error) {
	return execute(g, func() ([]domain.Block, error) {
		return g.daemon.FetchBlocks(ctx, fromHeight, checkpoints)
	})
}

func (g *guardedDaemon) FetchFeeInfo(
	ctx context.Context,
) (domain.FeeSchedule, error) {
	return execute(g, func() (domain.FeeSchedule, error) {
		return g.daemon.FetchFeeInfo(ctx)
	})
}

func (g *guardedDaemon) GetChainHeight(
	ctx context.Context,
) (domain.ChainInfo, error) {
	return execute(g, func() (domain.ChainInfo, error) {
		info, err := g.daemon.GetChainHeight(ctx)
		if err != nil {
			return info, err
		}
		return info, checkChainInfo(info)
	})
}

func execute[T any](g *guardedDaemon, call func() (T, error)) (T, error) {
	var zero T

	g.limiter.Take()
	res, err := g.breaker.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) ||
			errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s", domain.ErrNodeDead, err)
		}
		return zero, err
	}
	return res.(T), nil
}

func checkChainInfo(info domain.ChainInfo) error {
	if info.NetworkHeight == 0 {
		return fmt.Errorf("%w: network height is zero", domain.ErrNetworkBlockCount)
	}
	if info.Height > info.NetworkHeight+MaxHeightDrift {
		return fmt.Errorf(
			"%w: height %d is beyond network height %d",
			domain.ErrNetworkBlockCount, info.Height, info.NetworkHeight,
		)
	}
	return nil
}
