package main

import (
	"fmt"

	"github.com/kryptokrona/kryptokrona-walletd/internal/config"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/application"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	addressparser "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/address"
	"github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/daemon"
	"github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/daemon/kryptokrona"
	subwallet "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/subwallet/inmemory"
	log "github.com/sirupsen/logrus"
)

// newAppConfig wires the wallet services with the loaded config.
func newAppConfig() (*application.Config, error) {
	network := domain.KryptokronaMainnet
	network.ConfirmationDepth = config.GetUint64(config.ConfirmationDepthKey)

	parser := addressparser.NewParser()
	wallets, err := parseSubWallets(parser, network, config.GetSubWallets())
	if err != nil {
		return nil, err
	}

	client, err := kryptokrona.NewClient(kryptokrona.Config{
		Addr:           config.GetString(config.DaemonAddrKey),
		Timeout:        config.GetSeconds(config.DaemonTimeoutKey),
		BlockBatchSize: config.GetUint64(config.BlockBatchSizeKey),
	})
	if err != nil {
		return nil, err
	}

	return &application.Config{
		DBType:   config.GetString(config.DBTypeKey),
		DBConfig: config.GetDbDir(),
		Network:  network,
		Sync: application.SyncConfig{
			SyncInterval:          config.GetSeconds(config.SyncIntervalKey),
			DaemonUpdateInterval:  config.GetSeconds(config.DaemonUpdateIntervalKey),
			LockedTxCheckInterval: config.GetSeconds(config.LockedTxCheckIntervalKey),
			StartHeight:           config.GetUint64(config.StartHeightKey),
		},
		Daemon: daemon.NewGuardedDaemon(
			client, config.GetInt(config.DaemonRateLimitKey),
		),
		SubWallets:    newLedger(wallets),
		AddressParser: parser,
	}, nil
}

// newLedger builds the sub-wallet ledger. No output scanner is wired yet,
// so blocks advance the cursor without crediting any output.
func newLedger(wallets []subwallet.SubWallet) *subwallet.Ledger {
	log.WithField("subwallets", len(wallets)).Warn(
		"output scanning is disabled, sub-wallet balances will stay at zero " +
			"until funds are tracked by a scanner",
	)
	return subwallet.NewLedger(nil, nil, wallets...)
}

// parseSubWallets decodes the sub-wallet addresses, which must be standard
// addresses of the given network, and extracts their public spend keys.
func parseSubWallets(
	parser ports.AddressParser, network domain.NetworkParams, addresses []string,
) ([]subwallet.SubWallet, error) {
	seen := make(map[string]struct{}, len(addresses))
	wallets := make([]subwallet.SubWallet, 0, len(addresses))
	for _, addr := range addresses {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}

		if len(addr) != network.StandardAddressLength {
			return nil, fmt.Errorf(
				"invalid sub-wallet %s: %w", addr, domain.ErrAddressWrongLength,
			)
		}
		parsed, err := parser.Parse(addr, network.AddressPrefix)
		if err != nil {
			return nil, fmt.Errorf("invalid sub-wallet %s: %w", addr, err)
		}
		wallets = append(wallets, subwallet.SubWallet{
			Address:        addr,
			PublicSpendKey: parsed.SpendKey,
		})
	}
	return wallets, nil
}
