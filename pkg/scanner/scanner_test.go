package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger/zerolog"
	"github.com/raykavin/solscout/pkg/storage"
	"github.com/stretchr/testify/require"
)

var scanTime = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

type fakeScreener struct {
	pairs []core.Pair
	err   error
}

func (f *fakeScreener) Search(_ context.Context, _ string) ([]core.Pair, error) {
	return f.pairs, f.err
}

type fakeNotifier struct {
	alerts  []core.Alert
	failFor string
}

func (f *fakeNotifier) Notify(string) {}

func (f *fakeNotifier) OnAlert(alert core.Alert) error {
	if alert.TokenAddress == f.failFor {
		return errors.New("telegram unreachable")
	}
	f.alerts = append(f.alerts, alert)
	return nil
}

func (f *fakeNotifier) OnError(error) {}

type countingScreener struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingScreener) Search(_ context.Context, _ string) ([]core.Pair, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil, c.err
}

func (c *countingScreener) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type brokenStorage struct{}

func (brokenStorage) CreateAlert(context.Context, *core.Alert) error {
	return errors.New("storage unavailable")
}

func (brokenStorage) HasAlert(context.Context, string) (bool, error) {
	return false, errors.New("storage unavailable")
}

func (brokenStorage) Alerts(context.Context, ...core.AlertFilter) ([]*core.Alert, error) {
	return nil, nil
}

func (brokenStorage) Close() error { return nil }

func testSettings() core.Settings {
	return core.Settings{
		ChainID:      "solana",
		Query:        "solana",
		ScanInterval: 15 * time.Minute,
		MaxPairAge:   time.Hour,
		MinVolumeUSD: 500_000,
	}
}

func pair(token, name, chain string, age time.Duration, volume float64) core.Pair {
	return core.Pair{
		ChainID:      chain,
		Address:      "pair-" + token,
		URL:          "https://dexscreener.com/" + chain + "/" + token,
		BaseToken:    core.Token{Address: token, Name: name, Symbol: "TST"},
		VolumeUSD24h: volume,
		CreatedAt:    scanTime.Add(-age),
	}
}

func newTestScanner(t *testing.T, screener core.Screener, notifier core.Notifier) (*Scanner, core.AlertStorage) {
	t.Helper()

	store, err := storage.NewFromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log, err := zerolog.New("error", time.RFC3339, false, true)
	require.NoError(t, err)

	scanner := New(testSettings(), screener, store, notifier, log,
		WithClock(func() time.Time { return scanTime }))
	return scanner, store
}

func TestScanner_AlertsOnlyFreshHighVolumePairs(t *testing.T) {
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Fresh Winner", "solana", 30*time.Minute, 750_000),
		pair("tok2", "Too Old", "solana", 2*time.Hour, 900_000),
		pair("tok3", "Low Volume", "solana", 10*time.Minute, 100_000),
		pair("tok4", "Wrong Chain", "ethereum", 10*time.Minute, 900_000),
	}}

	// A pair with no known creation time is never a candidate
	unknown := pair("tok5", "No Timestamp", "solana", 0, 900_000)
	unknown.CreatedAt = time.Time{}
	screener.pairs = append(screener.pairs, unknown)

	notifier := &fakeNotifier{}
	scanner, store := newTestScanner(t, screener, notifier)

	require.NoError(t, scanner.Scan(context.Background()))
	require.Len(t, notifier.alerts, 1)
	require.Equal(t, "Fresh Winner", notifier.alerts[0].CoinName)

	seen, err := store.HasAlert(context.Background(), "tok1")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestScanner_DoesNotRepeatAlerts(t *testing.T) {
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Fresh Winner", "solana", 30*time.Minute, 750_000),
	}}
	notifier := &fakeNotifier{}
	scanner, _ := newTestScanner(t, screener, notifier)

	require.NoError(t, scanner.Scan(context.Background()))
	require.NoError(t, scanner.Scan(context.Background()))
	require.Len(t, notifier.alerts, 1)
}

func TestScanner_RetriesFailedDelivery(t *testing.T) {
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Fresh Winner", "solana", 30*time.Minute, 750_000),
	}}
	notifier := &fakeNotifier{failFor: "tok1"}
	scanner, store := newTestScanner(t, screener, notifier)

	// Delivery fails, so nothing is persisted
	require.NoError(t, scanner.Scan(context.Background()))
	require.Empty(t, notifier.alerts)

	seen, err := store.HasAlert(context.Background(), "tok1")
	require.NoError(t, err)
	require.False(t, seen)

	// Next scan delivers and persists
	notifier.failFor = ""
	require.NoError(t, scanner.Scan(context.Background()))
	require.Len(t, notifier.alerts, 1)
}

func TestScanner_ScanReturnsScreenerError(t *testing.T) {
	screener := &fakeScreener{err: errors.New("boom")}
	scanner, _ := newTestScanner(t, screener, &fakeNotifier{})

	err := scanner.Scan(context.Background())
	require.Error(t, err)
	require.Zero(t, scanner.Status().ScanCount)
}

func TestScanner_AlertsPairCreatedSlightlyAhead(t *testing.T) {
	// The screener occasionally reports a creation timestamp a little
	// ahead of this host's clock. Such pairs are brand new and must alert.
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Clock Skew", "solana", -2*time.Minute, 750_000),
	}}
	notifier := &fakeNotifier{}
	scanner, store := newTestScanner(t, screener, notifier)

	require.NoError(t, scanner.Scan(context.Background()))
	require.Len(t, notifier.alerts, 1)
	require.Equal(t, "Clock Skew", notifier.alerts[0].CoinName)

	seen, err := store.HasAlert(context.Background(), "tok1")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestScanner_HistoryCheckFailureSkipsPair(t *testing.T) {
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Fresh Winner", "solana", 30*time.Minute, 750_000),
	}}
	notifier := &fakeNotifier{}

	log, err := zerolog.New("error", time.RFC3339, false, true)
	require.NoError(t, err)

	scanner := New(testSettings(), screener, brokenStorage{}, notifier, log,
		WithClock(func() time.Time { return scanTime }))

	// The pair is neither alerted nor persisted, but the scan itself
	// completes so the loop keeps going
	require.NoError(t, scanner.Scan(context.Background()))
	require.Empty(t, notifier.alerts)
	require.Equal(t, int64(1), scanner.Status().ScanCount)
	require.Zero(t, scanner.Status().AlertCount)
}

func TestScanner_RunSurvivesScanFailures(t *testing.T) {
	screener := &countingScreener{err: errors.New("screener down")}

	log, err := zerolog.New("error", time.RFC3339, false, true)
	require.NoError(t, err)

	settings := testSettings()
	settings.ScanInterval = 10 * time.Millisecond

	store, err := storage.NewFromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	scanner := New(settings, screener, store, &fakeNotifier{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- scanner.Run(ctx) }()

	// The loop keeps ticking past failed scans
	require.Eventually(t, func() bool {
		return screener.callCount() >= 3
	}, 5*time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestScanner_StatusCounters(t *testing.T) {
	screener := &fakeScreener{pairs: []core.Pair{
		pair("tok1", "Fresh Winner", "solana", 30*time.Minute, 750_000),
	}}
	scanner, _ := newTestScanner(t, screener, &fakeNotifier{})

	require.NoError(t, scanner.Scan(context.Background()))

	status := scanner.Status()
	require.Equal(t, int64(1), status.ScanCount)
	require.Equal(t, int64(1), status.AlertCount)
	require.Equal(t, scanTime, status.LastScan)
}
