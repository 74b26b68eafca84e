package application

import (
	"fmt"

	"github.com/kryptokrona/kryptokrona-walletd/internal/core/domain"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/ports"
	dbbadger "github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/storage/db/badger"
	"github.com/kryptokrona/kryptokrona-walletd/internal/infrastructure/storage/db/inmemory"
	log "github.com/sirupsen/logrus"
)

const (
	DBInMemory = "inmemory"
	DBBadger   = "badger"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInMemory: {},
		DBBadger:   {},
	}
)

// Config wires the services of the wallet. Services are built lazily on
// first access and shared afterwards.
type Config struct {
	DBType string
	// DBConfig is the datadir of the badger database.
	DBConfig interface{}

	Network domain.NetworkParams
	Sync    SyncConfig

	Daemon        ports.Daemon
	SubWallets    ports.SubWallets
	AddressParser ports.AddressParser
	// Sender is optional.
	Sender ports.TransactionSender

	repo        ports.RepoManager
	coordinator SyncCoordinator
	engine      ValidationEngine
	wallet      WalletService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.walletService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) SyncCoordinator() SyncCoordinator {
	svc, _ := c.syncCoordinator()
	return svc
}

func (c *Config) ValidationEngine() ValidationEngine {
	svc, _ := c.validationEngine()
	return svc
}

func (c *Config) WalletService() WalletService {
	svc, _ := c.walletService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		case DBBadger:
			datadir, ok := c.DBConfig.(string)
			if !ok {
				return nil, fmt.Errorf("badger db requires a datadir")
			}
			repo, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repo
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) syncCoordinator() (SyncCoordinator, error) {
	if c.coordinator == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		cfg := c.Sync
		cfg.Network = c.Network
		coordinator, err := NewSyncCoordinator(cfg, c.Daemon, c.SubWallets, repo)
		if err != nil {
			return nil, err
		}
		c.coordinator = coordinator
	}
	return c.coordinator, nil
}

func (c *Config) validationEngine() (ValidationEngine, error) {
	if c.engine == nil {
		coordinator, err := c.syncCoordinator()
		if err != nil {
			return nil, err
		}
		engine, err := NewValidationEngine(c.Network, c.AddressParser, coordinator)
		if err != nil {
			return nil, err
		}
		c.engine = engine
	}
	return c.engine, nil
}

func (c *Config) walletService() (WalletService, error) {
	if c.wallet == nil {
		coordinator, err := c.syncCoordinator()
		if err != nil {
			return nil, err
		}
		engine, err := c.validationEngine()
		if err != nil {
			return nil, err
		}
		c.wallet = NewWalletService(coordinator, engine, c.Sender)
	}
	return c.wallet, nil
}
