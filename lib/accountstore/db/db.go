package db

import (
	"context"
	"database/sql"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const deleteBalanceSnapshotsIn = `
DELETE FROM balance_snapshot WHERE account = ? AND time >= ? AND time < ?
`

type DeleteBalanceSnapshotsInParams struct {
	Account int64
	After   int64
	Before  int64
}

func (q *Queries) DeleteBalanceSnapshotsIn(ctx context.Context, arg DeleteBalanceSnapshotsInParams) error {
	_, err := q.db.ExecContext(ctx, deleteBalanceSnapshotsIn, arg.Account, arg.After, arg.Before)
	return err
}

const createBalanceSnapshot = `
INSERT INTO balance_snapshot (account, time, balance) VALUES (?, ?, ?)
`

type CreateBalanceSnapshotParams struct {
	Account int64
	Time    int64
	Balance string
}

func (q *Queries) CreateBalanceSnapshot(ctx context.Context, arg CreateBalanceSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createBalanceSnapshot, arg.Account, arg.Time, arg.Balance)
	return err
}

const getBalanceSnapshots = `
SELECT time, balance FROM balance_snapshot WHERE account = ? ORDER BY time ASC
`

type GetBalanceSnapshotsRow struct {
	Time    int64
	Balance string
}

func (q *Queries) GetBalanceSnapshots(ctx context.Context, account int64) ([]GetBalanceSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getBalanceSnapshots, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetBalanceSnapshotsRow
	for rows.Next() {
		var i GetBalanceSnapshotsRow
		if err := rows.Scan(&i.Time, &i.Balance); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteReadingSnapshotsIn = `
DELETE FROM reading_snapshot WHERE account = ? AND time >= ? AND time < ?
`

type DeleteReadingSnapshotsInParams struct {
	Account int64
	After   int64
	Before  int64
}

func (q *Queries) DeleteReadingSnapshotsIn(ctx context.Context, arg DeleteReadingSnapshotsInParams) error {
	_, err := q.db.ExecContext(ctx, deleteReadingSnapshotsIn, arg.Account, arg.After, arg.Before)
	return err
}

const createReadingSnapshot = `
INSERT INTO reading_snapshot (account, meter, time, value) VALUES (?, ?, ?, ?)
`

type CreateReadingSnapshotParams struct {
	Account int64
	Meter   int64
	Time    int64
	Value   string
}

func (q *Queries) CreateReadingSnapshot(ctx context.Context, arg CreateReadingSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createReadingSnapshot, arg.Account, arg.Meter, arg.Time, arg.Value)
	return err
}

const getReadingSnapshots = `
SELECT meter, time, value FROM reading_snapshot WHERE account = ? ORDER BY meter ASC, time ASC
`

type GetReadingSnapshotsRow struct {
	Meter int64
	Time  int64
	Value string
}

func (q *Queries) GetReadingSnapshots(ctx context.Context, account int64) ([]GetReadingSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getReadingSnapshots, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetReadingSnapshotsRow
	for rows.Next() {
		var i GetReadingSnapshotsRow
		if err := rows.Scan(&i.Meter, &i.Time, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
