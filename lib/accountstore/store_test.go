package accountstore

import (
	"context"
	"testing"
	"time"

	"erkc63-client/lib/accountstore/db"
	"erkc63-client/lib/testutil"
	"erkc63-client/lib/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/accountstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		history, err := store.Pull(ctx, 500100)
		require.NoError(t, err)
		require.Len(t, history.Balances, 0)
		require.Len(t, history.Readings, 0)
	}

	morning := time.Date(2024, 3, 1, 9, 0, 0, 0, timezone.Location)
	{
		err := store.Push(ctx, PushRequest{
			Time:    morning,
			Account: 500100,
			Balance: decimal.RequireFromString("1234.56"),
			Readings: []ReadingSnapshot{
				{Meter: 101, Value: decimal.RequireFromString("123.456")},
				{Meter: 102, Value: decimal.RequireFromString("9000")},
			},
		})
		require.NoError(t, err)
	}

	// a second snapshot the same day replaces the first
	evening := time.Date(2024, 3, 1, 21, 0, 0, 0, timezone.Location)
	{
		err := store.Push(ctx, PushRequest{
			Time:    evening,
			Account: 500100,
			Balance: decimal.RequireFromString("1000.00"),
			Readings: []ReadingSnapshot{
				{Meter: 101, Value: decimal.RequireFromString("124")},
			},
		})
		require.NoError(t, err)
	}

	nextDay := time.Date(2024, 3, 2, 9, 0, 0, 0, timezone.Location)
	{
		err := store.Push(ctx, PushRequest{
			Time:    nextDay,
			Account: 500100,
			Balance: decimal.RequireFromString("900"),
		})
		require.NoError(t, err)
	}

	history, err := store.Pull(ctx, 500100)
	require.NoError(t, err)

	require.Len(t, history.Balances, 2)
	require.Equal(t, evening.Unix(), history.Balances[0].Time.Unix())
	require.True(t, history.Balances[0].Balance.Equal(decimal.RequireFromString("1000")))
	require.Equal(t, nextDay.Unix(), history.Balances[1].Time.Unix())

	require.Len(t, history.Readings, 1)
	require.Equal(t, int64(101), history.Readings[0].Meter)
	require.Len(t, history.Readings[0].Snapshots, 1)
	require.True(t, history.Readings[0].Snapshots[0].Value.Equal(decimal.RequireFromString("124")))

	// other accounts are untouched
	other, err := store.Pull(ctx, 500200)
	require.NoError(t, err)
	require.Len(t, other.Balances, 0)
}
