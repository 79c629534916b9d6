package erkc

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountInfo is the summary widget of a personal account.
type AccountInfo struct {
	Account           int64
	Address           string
	Area              decimal.Decimal
	Residents         int
	Balance           decimal.Decimal
	LastPaymentAmount decimal.Decimal
	LastPaymentDate   time.Time
}

// Meter is one row of the readings-submission form.
type Meter struct {
	Id     int64
	Name   string
	Serial string
	// date and value of the last accepted reading
	ReadingDate  time.Time
	ReadingValue decimal.Decimal
}

// Reading is a value to submit for a meter.
type Reading struct {
	MeterId int64
	Value   decimal.Decimal
}

// Accrual is one billing period row of the accruals history.
type Accrual struct {
	// first day of the billing month, portal time
	Period time.Time
	Amount decimal.Decimal
	Status string
}

// Payment is one row of the payments history.
type Payment struct {
	Date   time.Time
	Amount decimal.Decimal
	Source string
}

type BillKind string

const (
	// the main utilities bill
	BillMain BillKind = "erkc"
	// the late-payment penalty bill
	BillPenalty BillKind = "peni"
)
