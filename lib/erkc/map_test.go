package erkc

import (
	"testing"
	"time"

	"erkc63-client/lib/timezone"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCoerceMoney(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"1234.56", "1234.56"},
		{"1 234,56", "1234.56"},
		{"4 321,09 ₽", "4321.09"},
		{"200,00 руб.", "200"},
		{"0", "0"},
	}

	for _, test := range testCases {
		value, err := coerceMoney("balance", test.input)
		require.NoError(t, err, test.input)
		require.True(t, value.Equal(decimal.RequireFromString(test.expected)), test.input)
	}
}

func TestCoerceMoneyMalformed(t *testing.T) {
	for _, input := range []string{"N/A", "", "12,34,56", "руб."} {
		_, err := coerceMoney("balance", input)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, input)
		require.Equal(t, "balance", validationErr.Field)
		require.Equal(t, input, validationErr.Value)
	}
}

func TestCoerceOptionalMoneyPlaceholder(t *testing.T) {
	value, err := coerceOptionalMoney("balance", "-")
	require.NoError(t, err)
	require.True(t, value.IsZero())

	// the placeholder is the only sanctioned default
	_, err = coerceOptionalMoney("balance", "N/A")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCoerceDate(t *testing.T) {
	date, err := coerceDate("date", "01.03.2024")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, timezone.Location), date)

	_, err = coerceDate("date", "2024-03-01")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCoercePeriod(t *testing.T) {
	period, err := coercePeriod("period", "03.2024")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, timezone.Location), period)
}

func TestMapMeterMalformedRowId(t *testing.T) {
	_, err := mapMeter(meterFields{
		rowId: "abc",
		name:  "ХВС",
		date:  "15.02.2024",
		value: "1",
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "row_id", validationErr.Field)
}
