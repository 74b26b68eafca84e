package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/ticker"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	namespace   = "walletd"
	metricsFile = "metrics"
)

var (
	ticks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticks_total",
		Help:      "Executed ticks of the sync tasks by outcome.",
	}, []string{"task", "outcome"})

	tickDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tick_duration_seconds",
		Help:      "Duration of the ticks of the sync tasks.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})

	droppedEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dropped_events_total",
		Help:      "Sync events dropped because no one was consuming them.",
	})

	walletHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "wallet_height",
		Help:      "Height of the last block processed by the wallet.",
	})

	networkHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "network_height",
		Help:      "Chain height reported by the daemon.",
	})

	lockedTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "locked_transactions",
		Help:      "Sent transactions waiting for confirmation depth.",
	})
)

// Last reported values, read back by Report.
var lastWalletHeight, lastNetworkHeight, lastLockedTransactions atomic.Uint64

func init() {
	prometheus.MustRegister(
		ticks, tickDuration, droppedEvents,
		walletHeight, networkHeight, lockedTransactions,
	)
}

// RecordTick counts an executed tick of task.
func RecordTick(task string, failed bool, duration time.Duration) {
	outcome := "completed"
	if failed {
		outcome = "failed"
	}
	ticks.WithLabelValues(task, outcome).Inc()
	tickDuration.WithLabelValues(task).Observe(duration.Seconds())
}

func RecordDroppedEvent() {
	droppedEvents.Inc()
}

func SetWalletHeight(height uint64) {
	lastWalletHeight.Store(height)
	walletHeight.Set(float64(height))
}

func SetNetworkHeight(height uint64) {
	lastNetworkHeight.Store(height)
	networkHeight.Set(float64(height))
}

func SetLockedTransactions(count int) {
	lastLockedTransactions.Store(uint64(count))
	lockedTransactions.Set(float64(count))
}

// Report logs the wallet heights and the process memory usage every
// interval. When ctx is done the gathered metrics are appended to a file in
// dir.
func Report(ctx context.Context, interval time.Duration, dir string) {
	t := ticker.New(interval)
	t.Resume()

	go func() {
		defer t.Stop()

		for {
			select {
			case <-t.Ticks():
				log.WithFields(reportFields()).Info("walletd stats")
			case <-ctx.Done():
				if err := DumpMetrics(dir); err != nil {
					log.WithError(err).Warn("failed to dump metrics")
				}
				return
			}
		}
	}()
}

func reportFields() log.Fields {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return log.Fields{
		"wallet_height":       lastWalletHeight.Load(),
		"network_height":      lastNetworkHeight.Load(),
		"locked_transactions": lastLockedTransactions.Load(),
		"heap_mb":             mem.HeapAlloc >> 20,
		"total_alloc_mb":      mem.TotalAlloc >> 20,
		"goroutines":          runtime.NumGoroutine(),
	}
}

// DumpMetrics appends the registered prometheus metrics to a file in dir.
func DumpMetrics(dir string) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(
		filepath.Join(dir, metricsFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, family := range families {
		if _, err := w.WriteString(family.String() + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
