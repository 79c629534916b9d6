package erkc

// every structural assumption about the portal markup lives here, so a
// portal redesign means updating this table and nothing else.
var selectors = struct {
	csrfToken string

	accountMenu string
	accountLink string

	accountWidget  string
	widgetSection1 string
	widgetSection2 string

	metersForm string
	meterBlock string
	meterName  string
	meterNote  string
	meterRowId string

	accrualTable string
	paymentTable string
	historyRows  string

	loginForm string
}{
	csrfToken: `meta[name=csrf-token]`,

	accountMenu: `div#select_ls_dropdown`,
	accountLink: `a[href]`,

	accountWidget:  `div.widget-left`,
	widgetSection1: `div.widget-section1 div.text-col-left`,
	widgetSection2: `div.widget-section2 div.text-col-right`,

	metersForm: `form#sendCountersValues`,
	meterBlock: `div.block-sch`,
	meterName:  `span.type`,
	meterNote:  `.block-note`,
	meterRowId: `input[name*=rowId]`,

	accrualTable: `table#accrualsTable`,
	paymentTable: `table#paymentsTable`,
	historyRows:  `tbody tr`,

	loginForm: `form#loginform`,
}

const (
	loginPath   = "/login"
	profilePath = "/profile/%d"
	metersPath  = "/counters/%d"
	accrualPath = "/accruals/%d"
	paymentPath = "/payments/%d"
	billPath    = "/bill/%d"
)
