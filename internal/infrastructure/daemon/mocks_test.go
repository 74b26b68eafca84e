package daemon_test

import (
	"context"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

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
