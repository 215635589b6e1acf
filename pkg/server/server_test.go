package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger/zerolog"
	"github.com/raykavin/solscout/pkg/scanner"
	"github.com/raykavin/solscout/pkg/storage"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	messages []string
}

func (s *stubNotifier) Notify(text string)       { s.messages = append(s.messages, text) }
func (s *stubNotifier) OnAlert(core.Alert) error { return nil }
func (s *stubNotifier) OnError(error)            {}

type stubStatus struct {
	status scanner.Status
}

func (s *stubStatus) Status() scanner.Status { return s.status }

func newTestServer(t *testing.T, options ...Option) (*Server, core.AlertStorage) {
	t.Helper()

	store, err := storage.NewFromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log, err := zerolog.New("error", time.RFC3339, false, true)
	require.NoError(t, err)

	settings := &core.Settings{ChainID: "solana", ScanInterval: 15 * time.Minute}
	return New(8000, settings, store, log, options...), store
}

func TestServer_Root(t *testing.T) {
	server, _ := newTestServer(t)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "Solana Scout Bot is running!")
}

func TestServer_HealthFreshAndStale(t *testing.T) {
	status := &stubStatus{status: scanner.Status{LastScan: time.Now()}}
	server, _ := newTestServer(t, WithStatusSource(status))

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	status.status.LastScan = time.Now().Add(-time.Hour)
	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestServer_TestEndpointSendsMessage(t *testing.T) {
	notifier := &stubNotifier{}
	server, _ := newTestServer(t, WithNotifier(notifier))

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/test", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, []string{"Test message from bot"}, notifier.messages)
}

func TestServer_AlertsJSONAndCSV(t *testing.T) {
	server, store := newTestServer(t)

	alert := &core.Alert{
		CoinName:     "Moon Coin",
		Symbol:       "MOON",
		TokenAddress: "tok1",
		ChainID:      "solana",
		VolumeUSD:    750_000,
		AlertedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateAlert(context.Background(), alert))

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/alerts", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var alerts []core.Alert
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	require.Equal(t, "Moon Coin", alerts[0].CoinName)

	recorder = httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/alerts?format=csv", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	require.Contains(t, recorder.Body.String(), "Moon Coin")
}

func TestServer_AlertsLimit(t *testing.T) {
	server, store := newTestServer(t)

	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, token := range []string{"tok1", "tok2", "tok3"} {
		require.NoError(t, store.CreateAlert(context.Background(), &core.Alert{
			CoinName:     token,
			TokenAddress: token,
			AlertedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/alerts?limit=2", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var alerts []core.Alert
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &alerts))
	require.Len(t, alerts, 2)
	require.Equal(t, "tok2", alerts[0].CoinName)
	require.Equal(t, "tok3", alerts[1].CoinName)
}

func TestServer_BotInfoWithoutIdentifier(t *testing.T) {
	server, _ := newTestServer(t, WithNotifier(&stubNotifier{}))

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/botinfo", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}
