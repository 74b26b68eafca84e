package application_test

import (
	"errors"
	"testing"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/application"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	addressparser "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/address"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWalletService(
	t *testing.T, sender ports.TransactionSender,
) (application.WalletService, *coordinatorFixture) {
	f := newCoordinatorFixture(t, 0, nil)
	f.start(t, domain.ChainInfo{Height: 10, NetworkHeight: 10})

	engine, err := application.NewValidationEngine(
		network, addressparser.NewParser(), f.coordinator,
	)
	require.NoError(t, err)

	return application.NewWalletService(f.coordinator, engine, sender), f
}

func sendRequest(amount int64) domain.TransactionRequest {
	return domain.TransactionRequest{
		Destinations: []domain.Destination{{Address: otherAddress, Amount: amount}},
		Fee:          domain.NewFixedFee(1),
		Mixin:        3,
	}
}

func TestSendTransaction(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendTransaction", mock.Anything, mock.Anything).
		Return(ports.SentTransaction{Hash: "tx1"}, nil).Once()

	svc, _ := newTestWalletService(t, sender)

	unlocked, locked, err := svc.Balance()
	require.NoError(t, err)
	require.Equal(t, uint64(100), unlocked)
	require.Zero(t, locked)

	hash, err := svc.SendTransaction(ctx, sendRequest(50))
	require.NoError(t, err)
	require.Equal(t, "tx1", hash)

	unlocked, locked, err = svc.Balance(ourAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(49), unlocked)
	require.Equal(t, uint64(51), locked)

	txs := svc.LockedTransactions()
	require.Len(t, txs, 1)
	require.Equal(t, "tx1", txs[0].Hash)
	require.Equal(t, uint64(1), txs[0].Fee)
	require.Equal(t, map[string]uint64{ourAddress: 51}, txs[0].Amounts)

	// The reserved funds can not be spent again.
	_, err = svc.SendTransaction(ctx, sendRequest(100))
	require.ErrorIs(t, err, domain.ErrNotEnoughBalance)
	require.ErrorIs(t, svc.ValidateTransaction(sendRequest(49)), domain.ErrNotEnoughBalance)
	require.NoError(t, svc.ValidateTransaction(sendRequest(48)))

	sender.AssertNumberOfCalls(t, "SendTransaction", 1)
}

func TestSendTransactionWithSenderAmounts(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendTransaction", mock.Anything, mock.Anything).
		Return(ports.SentTransaction{
			Hash:    "tx1",
			Fee:     2,
			Amounts: map[string]uint64{ourAddress: 60},
		}, nil).Once()

	svc, _ := newTestWalletService(t, sender)

	_, err := svc.SendTransaction(ctx, sendRequest(50))
	require.NoError(t, err)

	unlocked, locked, err := svc.Balance()
	require.NoError(t, err)
	require.Equal(t, uint64(40), unlocked)
	require.Equal(t, uint64(60), locked)
	require.Equal(t, uint64(2), svc.LockedTransactions()[0].Fee)
}

func TestSendTransactionFailure(t *testing.T) {
	t.Run("sender not configured", func(t *testing.T) {
		svc, _ := newTestWalletService(t, nil)

		_, err := svc.SendTransaction(ctx, sendRequest(50))
		require.ErrorIs(t, err, application.ErrSenderNotConfigured)
	})

	t.Run("invalid request", func(t *testing.T) {
		sender := &mockSender{}
		svc, _ := newTestWalletService(t, sender)

		_, err := svc.SendTransaction(ctx, sendRequest(0))
		require.ErrorIs(t, err, domain.ErrAmountIsZero)
		sender.AssertNotCalled(t, "SendTransaction", mock.Anything, mock.Anything)
	})

	t.Run("sender error", func(t *testing.T) {
		sendErr := errors.New("relay rejected")
		sender := &mockSender{}
		sender.On("SendTransaction", mock.Anything, mock.Anything).
			Return(ports.SentTransaction{}, sendErr).Once()

		svc, _ := newTestWalletService(t, sender)

		_, err := svc.SendTransaction(ctx, sendRequest(50))
		require.ErrorIs(t, err, sendErr)
		require.Empty(t, svc.LockedTransactions())

		unlocked, _, err := svc.Balance()
		require.NoError(t, err)
		require.Equal(t, uint64(100), unlocked)
	})
}

func TestWalletServiceState(t *testing.T) {
	svc, f := newTestWalletService(t, nil)

	require.Equal(t, domain.SchedulerRunning, svc.State())
	require.False(t, svc.IsSynced())
	require.Equal(t, uint64(10), svc.NodeInfo().Height)
	require.Equal(t, float64(1), svc.FeeSchedule().MinFeePerByte)
	require.Zero(t, svc.WalletHeight())

	svc.Stop()
	require.Equal(t, domain.SchedulerStopped, svc.State())
	require.Equal(t, domain.SchedulerStopped, f.coordinator.State())
}
