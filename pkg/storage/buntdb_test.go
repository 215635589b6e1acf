package storage

import (
	"context"
	"testing"
	"time"

	"github.com/raykavin/solscout/pkg/core"
	"github.com/stretchr/testify/require"
)

func newAlert(token, name string, alertedAt time.Time) *core.Alert {
	return &core.Alert{
		CoinName:     name,
		Symbol:       "TST",
		TokenAddress: token,
		ChainID:      "solana",
		VolumeUSD:    600_000,
		AlertedAt:    alertedAt,
	}
}

func TestBuntStorage_CreateAndHasAlert(t *testing.T) {
	storage, err := NewFromMemory()
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()

	found, err := storage.HasAlert(ctx, "tok1")
	require.NoError(t, err)
	require.False(t, found)

	alert := newAlert("tok1", "Moon Coin", time.Now().UTC())
	require.NoError(t, storage.CreateAlert(ctx, alert))
	require.NotZero(t, alert.ID)

	found, err = storage.HasAlert(ctx, "tok1")
	require.NoError(t, err)
	require.True(t, found)
}

func TestBuntStorage_AlertsOrderedByAlertedAt(t *testing.T) {
	storage, err := NewFromMemory()
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, storage.CreateAlert(ctx, newAlert("tok2", "Second", base.Add(time.Hour))))
	require.NoError(t, storage.CreateAlert(ctx, newAlert("tok1", "First", base)))
	require.NoError(t, storage.CreateAlert(ctx, newAlert("tok3", "Third", base.Add(2*time.Hour))))

	alerts, err := storage.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	require.Equal(t, "First", alerts[0].CoinName)
	require.Equal(t, "Second", alerts[1].CoinName)
	require.Equal(t, "Third", alerts[2].CoinName)
}

func TestBuntStorage_AlertsFilters(t *testing.T) {
	storage, err := NewFromMemory()
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	old := newAlert("tok1", "Old", base)
	recent := newAlert("tok2", "Recent", base.Add(3*time.Hour))
	require.NoError(t, storage.CreateAlert(ctx, old))
	require.NoError(t, storage.CreateAlert(ctx, recent))

	alerts, err := storage.Alerts(ctx, core.WithAlertedAfter(base.Add(time.Hour)))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Recent", alerts[0].CoinName)

	alerts, err = storage.Alerts(ctx, core.WithToken("tok1"))
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Old", alerts[0].CoinName)
}

func TestBuntStorage_DuplicateTokenOverwrites(t *testing.T) {
	storage, err := NewFromMemory()
	require.NoError(t, err)
	defer storage.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, storage.CreateAlert(ctx, newAlert("tok1", "First", now)))
	require.NoError(t, storage.CreateAlert(ctx, newAlert("tok1", "Renamed", now.Add(time.Minute))))

	alerts, err := storage.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.Equal(t, "Renamed", alerts[0].CoinName)
}
