package erkc

import (
	"strconv"
	"strings"
	"time"

	"erkc63-client/lib/timezone"

	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "02.01.2006"
	periodLayout = "01.2006"
)

// the account summary renders "-" for fields with no value yet, the
// one place a default is sanctioned. Everything else is strict.
const emptyPlaceholder = "-"

func coerceMoney(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSuffix(raw, "₽")
	s = strings.TrimSuffix(strings.TrimSpace(s), "руб.")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw}
	}
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Value: raw}
	}
	return value, nil
}

func coerceOptionalMoney(field, raw string) (decimal.Decimal, error) {
	if raw == emptyPlaceholder {
		return decimal.Zero, nil
	}
	return coerceMoney(field, raw)
}

func coerceDate(field, raw string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, raw, timezone.Location)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Value: raw}
	}
	return date, nil
}

func coerceOptionalDate(field, raw string) (time.Time, error) {
	if raw == emptyPlaceholder {
		return time.Time{}, nil
	}
	return coerceDate(field, raw)
}

func coercePeriod(field, raw string) (time.Time, error) {
	period, err := time.ParseInLocation(periodLayout, raw, timezone.Location)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Value: raw}
	}
	return period, nil
}

func coerceInt(field, raw string) (int, error) {
	if raw == emptyPlaceholder {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw}
	}
	return n, nil
}

func mapAccountInfo(account int64, w accountWidget) (AccountInfo, error) {
	if w.address == "" {
		return AccountInfo{}, &ValidationError{Field: "address", Value: w.address}
	}
	area, err := coerceOptionalMoney("area", w.area)
	if err != nil {
		return AccountInfo{}, err
	}
	residents, err := coerceInt("residents", w.residents)
	if err != nil {
		return AccountInfo{}, err
	}
	balance, err := coerceOptionalMoney("balance", w.balance)
	if err != nil {
		return AccountInfo{}, err
	}
	lastPaymentAmount, err := coerceOptionalMoney("last_payment_amount", w.lastPaymentAmount)
	if err != nil {
		return AccountInfo{}, err
	}
	lastPaymentDate, err := coerceOptionalDate("last_payment_date", w.lastPaymentDate)
	if err != nil {
		return AccountInfo{}, err
	}

	return AccountInfo{
		Account:           account,
		Address:           w.address,
		Area:              area,
		Residents:         residents,
		Balance:           balance,
		LastPaymentAmount: lastPaymentAmount,
		LastPaymentDate:   lastPaymentDate,
	}, nil
}

func mapMeter(f meterFields) (Meter, error) {
	id, err := strconv.ParseInt(f.rowId, 10, 64)
	if err != nil {
		return Meter{}, &ValidationError{Field: "row_id", Value: f.rowId}
	}
	date, err := coerceDate("reading_date", f.date)
	if err != nil {
		return Meter{}, err
	}
	value, err := coerceMoney("reading_value", f.value)
	if err != nil {
		return Meter{}, err
	}

	return Meter{
		Id:           id,
		Name:         f.name,
		Serial:       f.serial,
		ReadingDate:  date,
		ReadingValue: value,
	}, nil
}

func mapAccrual(row []string) (Accrual, error) {
	if len(row) < 3 {
		return Accrual{}, &ParseError{
			Selector: selectors.accrualTable,
			Detail:   "accrual row holds fewer cells than expected",
		}
	}
	period, err := coercePeriod("period", row[0])
	if err != nil {
		return Accrual{}, err
	}
	amount, err := coerceMoney("amount", row[1])
	if err != nil {
		return Accrual{}, err
	}
	if row[2] == "" {
		return Accrual{}, &ValidationError{Field: "status", Value: row[2]}
	}

	return Accrual{Period: period, Amount: amount, Status: row[2]}, nil
}

func mapPayment(row []string) (Payment, error) {
	if len(row) < 3 {
		return Payment{}, &ParseError{
			Selector: selectors.paymentTable,
			Detail:   "payment row holds fewer cells than expected",
		}
	}
	date, err := coerceDate("date", row[0])
	if err != nil {
		return Payment{}, err
	}
	amount, err := coerceMoney("amount", row[1])
	if err != nil {
		return Payment{}, err
	}

	return Payment{Date: date, Amount: amount, Source: row[2]}, nil
}
