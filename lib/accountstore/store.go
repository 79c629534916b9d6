package accountstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"erkc63-client/lib/accountstore/db"
	"erkc63-client/lib/timezone"

	"github.com/shopspring/decimal"
)

// Store keeps daily snapshots of account balances and meter readings,
// so balance history survives the portal only showing the current
// state.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type ReadingSnapshot struct {
	Meter int64
	Value decimal.Decimal
}

type PushRequest struct {
	Time     time.Time
	Account  int64
	Balance  decimal.Decimal
	Readings []ReadingSnapshot
}

// Push records one snapshot, replacing any snapshot already taken the
// same portal-local day.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	t := req.Time.In(timezone.Location)
	startOfToday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, timezone.Location).Unix()
	startOfTomorrow := time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, timezone.Location).Unix()

	err = txqry.DeleteBalanceSnapshotsIn(ctx, db.DeleteBalanceSnapshotsInParams{
		Account: req.Account,
		After:   startOfToday,
		Before:  startOfTomorrow,
	})
	if err != nil {
		return err
	}
	err = txqry.DeleteReadingSnapshotsIn(ctx, db.DeleteReadingSnapshotsInParams{
		Account: req.Account,
		After:   startOfToday,
		Before:  startOfTomorrow,
	})
	if err != nil {
		return err
	}

	err = txqry.CreateBalanceSnapshot(ctx, db.CreateBalanceSnapshotParams{
		Account: req.Account,
		Time:    req.Time.Unix(),
		Balance: req.Balance.String(),
	})
	if err != nil {
		return err
	}
	for _, reading := range req.Readings {
		err = txqry.CreateReadingSnapshot(ctx, db.CreateReadingSnapshotParams{
			Account: req.Account,
			Meter:   reading.Meter,
			Time:    req.Time.Unix(),
			Value:   reading.Value.String(),
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type BalancePoint struct {
	Time    time.Time
	Balance decimal.Decimal
}

type ReadingPoint struct {
	Time  time.Time
	Value decimal.Decimal
}

type ReadingSeries struct {
	Meter     int64
	Snapshots []ReadingPoint
}

type History struct {
	Balances []BalancePoint
	Readings []ReadingSeries
}

// Pull returns the recorded history of one account, ordered by time.
// Rows that no longer parse are skipped with a warning instead of
// poisoning the whole series.
func (s Store) Pull(ctx context.Context, account int64) (History, error) {
	balanceRows, err := s.qry.GetBalanceSnapshots(ctx, account)
	if err != nil {
		return History{}, err
	}

	var history History
	for _, r := range balanceRows {
		balance, err := decimal.NewFromString(r.Balance)
		if err != nil {
			slog.WarnContext(ctx, "failed to parse stored balance", "account", account, "err", err)
			continue
		}
		history.Balances = append(history.Balances, BalancePoint{
			Time:    time.Unix(r.Time, 0).In(timezone.Location),
			Balance: balance,
		})
	}

	readingRows, err := s.qry.GetReadingSnapshots(ctx, account)
	if err != nil {
		return History{}, err
	}
	for _, r := range readingRows {
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			slog.WarnContext(ctx, "failed to parse stored reading", "account", account, "meter", r.Meter, "err", err)
			continue
		}
		point := ReadingPoint{
			Time:  time.Unix(r.Time, 0).In(timezone.Location),
			Value: value,
		}

		n := len(history.Readings)
		if n > 0 && history.Readings[n-1].Meter == r.Meter {
			history.Readings[n-1].Snapshots = append(history.Readings[n-1].Snapshots, point)
			continue
		}
		history.Readings = append(history.Readings, ReadingSeries{
			Meter:     r.Meter,
			Snapshots: []ReadingPoint{point},
		})
	}

	return history, nil
}
