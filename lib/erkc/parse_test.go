package erkc

import (
	"errors"
	"testing"
	"time"

	"erkc63-client/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const dashboardFixture = `<html>
<head><meta name="csrf-token" content="dashboard-token"></head>
<body>
<div id="select_ls_dropdown">
	<a href="/profile/500100">500100</a>
	<a href="/profile/500300">500300</a>
	<a href="/profile/500200">500200</a>
	<a href="/help">помощь</a>
</div>
</body>
</html>`

const accountFixture = `<html><body>
<div class="widget-left">
	<div class="widget-section1">
		<div class="text-col-left">ул. Ленина, д. 1, кв. 2</div>
		<div class="text-col-left">45,6</div>
		<div class="text-col-left">3</div>
	</div>
	<div class="widget-section2">
		<div class="text-col-right">1` + " " + `234,56</div>
		<div class="text-col-right">2` + " " + `000,00</div>
		<div class="text-col-right">01.03.2024</div>
	</div>
</div>
</body></html>`

const metersFixture = `<html><body>
<form id="sendCountersValues">
	<div class="block-sch">
		<span class="type">ХВС</span> <span>сч. №12-345</span>
		<div class="block-note">от 15.02.2024</div><div>123.456</div>
		<input name="rowId[101]" value="101">
	</div>
	<div class="block-sch">
		<span class="type"></span>
	</div>
	<div class="block-sch">
		<span class="type">Электроэнергия</span> <span>№777</span>
		<div class="block-note">от 20.02.2024</div><div>9000</div>
		<input name="rowId[102]" value="102">
	</div>
</form>
</body></html>`

const accrualsFixture = `<html><body>
<table id="accrualsTable"><tbody>
	<tr><td>03.2024</td><td>4 321,09</td><td>Оплачено</td></tr>
	<tr><td>04.2024</td><td>4 000,00</td><td>Не оплачено</td></tr>
</tbody></table>
</body></html>`

func TestParseCsrfToken(t *testing.T) {
	doc, err := newDocument([]byte(dashboardFixture))
	require.NoError(t, err)

	token, err := parseCsrfToken(doc)
	require.NoError(t, err)
	require.Equal(t, "dashboard-token", token)
}

func TestParseCsrfTokenMissing(t *testing.T) {
	doc, err := newDocument([]byte(`<html><head></head></html>`))
	require.NoError(t, err)

	_, err = parseCsrfToken(doc)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, selectors.csrfToken, parseErr.Selector)
}

func TestParseAccounts(t *testing.T) {
	doc, err := newDocument([]byte(dashboardFixture))
	require.NoError(t, err)

	accounts, err := parseAccounts(doc)
	require.NoError(t, err)
	// primary account stays first, secondary accounts are sorted
	require.Equal(t, []int64{500100, 500200, 500300}, accounts)
}

func TestParseAccountsMissingDropdown(t *testing.T) {
	doc, err := newDocument([]byte(`<html><body></body></html>`))
	require.NoError(t, err)

	_, err = parseAccounts(doc)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	// a layout change must not look like a transport fault
	var reqErr *RequestError
	require.False(t, errors.As(err, &reqErr))
}

func TestParseAccountWidgetRoundTrip(t *testing.T) {
	doc, err := newDocument([]byte(accountFixture))
	require.NoError(t, err)

	widget, err := parseAccountWidget(doc)
	require.NoError(t, err)

	info, err := mapAccountInfo(500100, widget)
	require.NoError(t, err)

	require.Equal(t, int64(500100), info.Account)
	require.Equal(t, "ул. Ленина, д. 1, кв. 2", info.Address)
	require.True(t, info.Area.Equal(decimal.RequireFromString("45.6")))
	require.Equal(t, 3, info.Residents)
	require.True(t, info.Balance.Equal(decimal.RequireFromString("1234.56")))
	require.True(t, info.LastPaymentAmount.Equal(decimal.RequireFromString("2000")))
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, timezone.Location), info.LastPaymentDate)
}

func TestParseMetersRoundTrip(t *testing.T) {
	doc, err := newDocument([]byte(metersFixture))
	require.NoError(t, err)

	fields, err := parseMeters(doc)
	require.NoError(t, err)

	meters := make([]Meter, len(fields))
	for i, f := range fields {
		meters[i], err = mapMeter(f)
		require.NoError(t, err)
	}

	expected := []Meter{
		{
			Id:           101,
			Name:         "ХВС",
			Serial:       "12-345",
			ReadingDate:  time.Date(2024, 2, 15, 0, 0, 0, 0, timezone.Location),
			ReadingValue: decimal.RequireFromString("123.456"),
		},
		{
			Id:           102,
			Name:         "Электроэнергия",
			Serial:       "777",
			ReadingDate:  time.Date(2024, 2, 20, 0, 0, 0, 0, timezone.Location),
			ReadingValue: decimal.RequireFromString("9000"),
		},
	}

	diff := cmp.Diff(
		expected, meters,
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	)
	require.Empty(t, diff)
}

func TestParseMetersMissingForm(t *testing.T) {
	doc, err := newDocument([]byte(`<html><body><div>nothing here</div></body></html>`))
	require.NoError(t, err)

	_, err = parseMeters(doc)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, selectors.metersForm, parseErr.Selector)
}

func TestParseAccrualHistory(t *testing.T) {
	doc, err := newDocument([]byte(accrualsFixture))
	require.NoError(t, err)

	rows, err := parseHistory(doc, selectors.accrualTable)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first, err := mapAccrual(rows[0])
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, timezone.Location), first.Period)
	require.Equal(t, "4321.09", first.Amount.String())
	require.Equal(t, "Оплачено", first.Status)

	second, err := mapAccrual(rows[1])
	require.NoError(t, err)
	require.Equal(t, "Не оплачено", second.Status)
}

func TestParseHistoryMissingTable(t *testing.T) {
	doc, err := newDocument([]byte(`<html><body></body></html>`))
	require.NoError(t, err)

	_, err = parseHistory(doc, selectors.paymentTable)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}
