package stats

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordTick(t *testing.T) {
	before := testutil.ToFloat64(ticks.WithLabelValues("test-task", "failed"))

	RecordTick("test-task", true, time.Second)
	RecordTick("test-task", false, time.Second)

	require.Equal(
		t, before+1, testutil.ToFloat64(ticks.WithLabelValues("test-task", "failed")),
	)
}

func TestHeights(t *testing.T) {
	SetWalletHeight(10)
	SetNetworkHeight(20)
	SetLockedTransactions(3)

	require.Equal(t, float64(10), testutil.ToFloat64(walletHeight))
	require.Equal(t, float64(20), testutil.ToFloat64(networkHeight))
	require.Equal(t, float64(3), testutil.ToFloat64(lockedTransactions))

	fields := reportFields()
	require.Equal(t, uint64(10), fields["wallet_height"])
	require.Equal(t, uint64(20), fields["network_height"])
	require.Equal(t, uint64(3), fields["locked_transactions"])
	require.Positive(t, fields["goroutines"])
}

func TestDumpMetrics(t *testing.T) {
	dir := t.TempDir()
	SetWalletHeight(1)

	require.NoError(t, DumpMetrics(dir))

	content, err := os.ReadFile(filepath.Join(dir, metricsFile))
	require.NoError(t, err)
	require.Contains(t, string(content), "walletd_wallet_height")
}

func TestReportDumpsOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	Report(ctx, time.Hour, dir)
	cancel()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, metricsFile))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}
