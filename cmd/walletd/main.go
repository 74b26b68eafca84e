package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kryptokrona/kryptokrona-walletd/internal/config"
	"github.com/kryptokrona/kryptokrona-walletd/internal/core/application"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/metronome"
	"github.com/kryptokrona/kryptokrona-walletd/pkg/stats"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const startRetryInterval = 5 * time.Second

var version = "dev"

var (
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "directory where the wallet state is stored",
	}
	logLevelFlag = &cli.IntFlag{
		Name:  "log-level",
		Usage: "logrus level, from 0 (panic) to 6 (trace)",
	}
	daemonAddrFlag = &cli.StringFlag{
		Name:  "daemon-addr",
		Usage: "address <host:port> of the kryptokrona node",
	}
	dbTypeFlag = &cli.StringFlag{
		Name:  "db-type",
		Usage: "database used to persist the sync state, inmemory or badger",
	}
	startHeightFlag = &cli.Uint64Flag{
		Name:  "start-height",
		Usage: "height the first scan starts from",
	}
	subWalletsFlag = &cli.StringSliceFlag{
		Name:  "subwallet",
		Usage: "address of a sub-wallet, can be repeated",
	}
	profilerFlag = &cli.BoolFlag{
		Name:  "enable-profiler",
		Usage: "periodically log memory statistics and dump metrics on exit",
	}
)

func main() {
	app := cli.NewApp()

	app.Version = version
	app.Name = "walletd"
	app.Usage = "kryptokrona wallet sync daemon"
	app.Flags = []cli.Flag{
		datadirFlag,
		logLevelFlag,
		daemonAddrFlag,
		dbTypeFlag,
		startHeightFlag,
		subWalletsFlag,
		profilerFlag,
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// flagOverrides returns the config values set through the command line.
func flagOverrides(c *cli.Context) map[string]interface{} {
	overrides := make(map[string]interface{})
	if c.IsSet(datadirFlag.Name) {
		overrides[config.DatadirKey] = c.String(datadirFlag.Name)
	}
	if c.IsSet(logLevelFlag.Name) {
		overrides[config.LogLevelKey] = c.Int(logLevelFlag.Name)
	}
	if c.IsSet(daemonAddrFlag.Name) {
		overrides[config.DaemonAddrKey] = c.String(daemonAddrFlag.Name)
	}
	if c.IsSet(dbTypeFlag.Name) {
		overrides[config.DBTypeKey] = c.String(dbTypeFlag.Name)
	}
	if c.IsSet(startHeightFlag.Name) {
		overrides[config.StartHeightKey] = c.Uint64(startHeightFlag.Name)
	}
	if c.IsSet(subWalletsFlag.Name) {
		overrides[config.SubWalletsKey] = strings.Join(
			c.StringSlice(subWalletsFlag.Name), ",",
		)
	}
	if c.IsSet(profilerFlag.Name) {
		overrides[config.EnableProfilerKey] = c.Bool(profilerFlag.Name)
	}
	return overrides
}

func run(c *cli.Context) error {
	if err := config.InitConfig(flagOverrides(c)); err != nil {
		return err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	appConfig, err := newAppConfig()
	if err != nil {
		return err
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}
	defer appConfig.RepoManager().Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.GetBool(config.EnableProfilerKey) {
		stats.Report(
			ctx, config.GetSeconds(config.StatsIntervalKey),
			config.GetProfilerDir(),
		)
	}

	wallet := appConfig.WalletService()
	go logEvents(ctx, wallet.Events())
	go startWallet(ctx, wallet)

	log.Infof("walletd %s started", version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down walletd")
	cancel()
	wallet.Stop()

	log.Info("walletd exited")
	return nil
}

// startWallet starts the wallet sync, retrying until the node is reachable.
func startWallet(ctx context.Context, wallet application.WalletService) {
	for ctx.Err() == nil {
		err := wallet.Start(ctx)
		if err == nil || errors.Is(err, application.ErrStartCancelled) {
			return
		}
		log.WithError(err).Warnf(
			"failed to start wallet sync, retrying in %s", startRetryInterval,
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(startRetryInterval):
		}
	}
}

func logEvents(ctx context.Context, events <-chan application.SyncEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			entry := log.WithField("session", event.SessionID).
				WithField("duration", event.Duration)
			if event.Type == metronome.TickFailed {
				entry.WithError(event.Err).Debugf("%s failed", event.Task())
				continue
			}
			entry.Tracef("%s completed", event.Task())
		}
	}
}
