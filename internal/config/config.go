package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/application"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the wallet
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DaemonAddrKey is the address <host:port> of the kryptokrona node
	DaemonAddrKey = "DAEMON_ADDR"
	// DaemonTimeoutKey is the timeout in seconds of every request to the node
	DaemonTimeoutKey = "DAEMON_TIMEOUT"
	// DaemonRateLimitKey is the max number of requests per second sent to
	// the node
	DaemonRateLimitKey = "DAEMON_RATE_LIMIT"
	// SyncIntervalKey is the interval in seconds between block syncs
	SyncIntervalKey = "SYNC_INTERVAL"
	// DaemonUpdateIntervalKey is the interval in seconds between refreshes of
	// the node height and fee info
	DaemonUpdateIntervalKey = "DAEMON_UPDATE_INTERVAL"
	// LockedTxCheckIntervalKey is the interval in seconds between checks of
	// the locked transactions
	LockedTxCheckIntervalKey = "LOCKED_TX_CHECK_INTERVAL"
	// StartHeightKey is the height the first scan of the wallet starts from
	StartHeightKey = "START_HEIGHT"
	// BlockBatchSizeKey is the max number of blocks fetched per sync
	BlockBatchSizeKey = "BLOCK_BATCH_SIZE"
	// ConfirmationDepthKey is the number of blocks a sent transaction must be
	// buried under before its funds are released
	ConfirmationDepthKey = "CONFIRMATION_DEPTH"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// EnableProfilerKey enables profiler that can be used to investigate
	// performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing basic
	// statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// SubWalletsKey is the list of the sub-wallet addresses, separated by
	// commas or spaces
	SubWalletsKey = "SUBWALLETS"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("kryptokrona-walletd", false)

// InitConfig loads the config from the environment, applies the given
// overrides on top of it, validates the result and creates the datadir.
func InitConfig(overrides map[string]interface{}) error {
	vip = viper.New()
	vip.SetEnvPrefix("WALLETD")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DaemonAddrKey, "127.0.0.1:11898")
	vip.SetDefault(DaemonTimeoutKey, 10)
	vip.SetDefault(DaemonRateLimitKey, 10)
	vip.SetDefault(SyncIntervalKey, 1)
	vip.SetDefault(DaemonUpdateIntervalKey, 10)
	vip.SetDefault(LockedTxCheckIntervalKey, 30)
	vip.SetDefault(StartHeightKey, 0)
	vip.SetDefault(BlockBatchSizeKey, 100)
	vip.SetDefault(ConfirmationDepthKey, 10)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	for key, value := range overrides {
		vip.Set(key, value)
	}

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetSeconds returns the value of key, expressed in seconds, as a duration.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetProfilerDir() string {
	return filepath.Join(GetDatadir(), ProfilerLocation)
}

// GetSubWallets returns the configured sub-wallet addresses.
func GetSubWallets() []string {
	return splitList(GetString(SubWalletsKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if GetString(DaemonAddrKey) == "" {
		return fmt.Errorf("missing daemon address")
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	for _, key := range []string{
		DaemonTimeoutKey, DaemonRateLimitKey, SyncIntervalKey,
		DaemonUpdateIntervalKey, LockedTxCheckIntervalKey, BlockBatchSizeKey,
		ConfirmationDepthKey, StatsIntervalKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be greater than zero", key)
		}
	}

	if len(GetSubWallets()) == 0 {
		return fmt.Errorf("at least one sub-wallet address is required")
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if GetString(DBTypeKey) == application.DBBadger {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func splitList(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}
