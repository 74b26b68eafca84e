package application_test

import (
	"testing"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/application"
	addressparser "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/address"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	newConfig := func() *application.Config {
		return &application.Config{
			DBType:        application.DBInMemory,
			Network:       network,
			Daemon:        &mockDaemon{},
			SubWallets:    &mockSubWallets{},
			AddressParser: addressparser.NewParser(),
		}
	}

	t.Run("valid", func(t *testing.T) {
		cfg := newConfig()
		require.NoError(t, cfg.Validate())
		require.NotNil(t, cfg.RepoManager())
		require.NotNil(t, cfg.ValidationEngine())

		svc := cfg.WalletService()
		require.NotNil(t, svc)
		require.Same(t, svc, cfg.WalletService())
		require.Same(t, cfg.SyncCoordinator(), cfg.SyncCoordinator())
	})

	t.Run("badger", func(t *testing.T) {
		cfg := newConfig()
		cfg.DBType = application.DBBadger
		cfg.DBConfig = t.TempDir()
		require.NoError(t, cfg.Validate())
		t.Cleanup(cfg.RepoManager().Close)
	})

	t.Run("unknown db type", func(t *testing.T) {
		cfg := newConfig()
		cfg.DBType = "postgres"
		require.ErrorIs(t, cfg.Validate(), application.ErrUnknownDBType)
	})

	t.Run("missing daemon", func(t *testing.T) {
		cfg := newConfig()
		cfg.Daemon = nil
		require.ErrorIs(t, cfg.Validate(), application.ErrMissingDaemon)
	})

	t.Run("missing address parser", func(t *testing.T) {
		cfg := newConfig()
		cfg.AddressParser = nil
		require.ErrorIs(t, cfg.Validate(), application.ErrMissingAddressParser)
	})
}
