package erkc

import (
	"bytes"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"erkc63-client/lib/htmlutil"
	"erkc63-client/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

func newDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Selector: "html", Detail: err.Error()}
	}
	return doc, nil
}

func parseCsrfToken(doc *goquery.Document) (string, error) {
	token := doc.Find(selectors.csrfToken).AttrOr("content", "")
	if token == "" {
		return "", &ParseError{
			Selector: selectors.csrfToken,
			Detail:   "csrf token tag not found",
		}
	}
	return token, nil
}

var accountHrefRegex = regexp.MustCompile(`/(\d+)$`)

// parseAccounts reads the personal account numbers out of the account
// switcher dropdown. The first entry is the primary account, the
// portal lists secondary accounts in arbitrary order so they get
// sorted.
func parseAccounts(doc *goquery.Document) ([]int64, error) {
	menu := doc.Find(selectors.accountMenu)
	if menu.Length() == 0 {
		return nil, &ParseError{
			Selector: selectors.accountMenu,
			Detail:   "account switcher dropdown not found",
		}
	}

	var accounts []int64
	menu.Find(selectors.accountLink).Each(func(_ int, a *goquery.Selection) {
		groups := accountHrefRegex.FindStringSubmatch(a.AttrOr("href", ""))
		if len(groups) < 2 {
			return
		}
		account, err := strconv.ParseInt(groups[1], 10, 64)
		if err != nil {
			return
		}
		accounts = append(accounts, account)
	})
	if len(accounts) == 0 {
		return nil, &ParseError{
			Selector: selectors.accountLink,
			Detail:   "no account links in dropdown",
		}
	}

	if len(accounts) >= 3 {
		slices.Sort(accounts[1:])
	}
	return accounts, nil
}

// raw strings in widget order, coercion happens in the mapper
type accountWidget struct {
	address           string
	area              string
	residents         string
	balance           string
	lastPaymentAmount string
	lastPaymentDate   string
}

func parseAccountWidget(doc *goquery.Document) (accountWidget, error) {
	widget := doc.Find(selectors.accountWidget).First()
	if widget.Length() == 0 {
		return accountWidget{}, &ParseError{
			Selector: selectors.accountWidget,
			Detail:   "account summary widget not found",
		}
	}

	var fields []string
	widget.Find(selectors.widgetSection1).Each(func(_ int, s *goquery.Selection) {
		fields = append(fields, textutil.NormalizeSpace(s.Text()))
	})
	widget.Find(selectors.widgetSection2).Each(func(_ int, s *goquery.Selection) {
		fields = append(fields, textutil.NormalizeSpace(s.Text()))
	})
	if len(fields) < 6 {
		return accountWidget{}, &ParseError{
			Selector: selectors.widgetSection1,
			Detail:   "account widget holds fewer columns than expected",
		}
	}

	return accountWidget{
		address:           fields[0],
		area:              fields[1],
		residents:         fields[2],
		balance:           fields[3],
		lastPaymentAmount: fields[4],
		lastPaymentDate:   fields[5],
	}, nil
}

type meterFields struct {
	rowId  string
	name   string
	serial string
	date   string
	value  string
}

// parseMeters walks the readings-submission form. Blocks with an empty
// type label are decorative and skipped, the portal renders one per
// disconnected service.
func parseMeters(doc *goquery.Document) ([]meterFields, error) {
	form := doc.Find(selectors.metersForm)
	if form.Length() == 0 {
		return nil, &ParseError{
			Selector: selectors.metersForm,
			Detail:   "readings submission form not found",
		}
	}

	var meters []meterFields
	var parseErr error
	form.Find(selectors.meterBlock).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		name := block.Find(selectors.meterName).First()
		if strings.TrimSpace(name.Text()) == "" {
			return true
		}

		serial := name.NextAllFiltered("span").First()
		note := block.Find(selectors.meterNote).First()
		if note.Length() == 0 {
			parseErr = &ParseError{
				Selector: selectors.meterNote,
				Detail:   "meter block without a reading date note",
			}
			return false
		}
		value := note.Next()
		rowId := block.Find(selectors.meterRowId).First()
		if rowId.Length() == 0 {
			parseErr = &ParseError{
				Selector: selectors.meterRowId,
				Detail:   "meter block without a row id input",
			}
			return false
		}

		serialText := serial.Text()
		if idx := strings.LastIndex(serialText, "№"); idx >= 0 {
			serialText = serialText[idx+len("№"):]
		}

		meters = append(meters, meterFields{
			rowId:  rowId.AttrOr("value", ""),
			name:   textutil.NormalizeSpace(name.Text()),
			serial: textutil.NormalizeSpace(serialText),
			date:   strings.TrimPrefix(textutil.NormalizeSpace(note.Text()), "от "),
			value:  textutil.NormalizeSpace(value.Text()),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return meters, nil
}

// parseHistory returns normalized cell texts of every row of a history
// table. An empty tbody is fine, a missing table is a layout change.
func parseHistory(doc *goquery.Document, tableSelector string) ([][]string, error) {
	table := doc.Find(tableSelector)
	if table.Length() == 0 {
		return nil, &ParseError{
			Selector: tableSelector,
			Detail:   "history table not found",
		}
	}

	var rows [][]string
	table.Find(selectors.historyRows).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			// history cells nest markup (status badges, icons),
			// flatten to text before normalizing
			text := ""
			if len(td.Nodes) > 0 {
				text = htmlutil.GetText(td.Nodes[0])
			}
			cells = append(cells, textutil.NormalizeSpace(text))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows, nil
}

func isLoginDocument(doc *goquery.Document) bool {
	return doc.Find(selectors.loginForm).Length() > 0
}
