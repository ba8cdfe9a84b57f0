package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// statementPages are the annual statement pages under /quote/{symbol}
var statementPages = []string{"financials", "balance-sheet", "cash-flow"}

var fiscalYear = regexp.MustCompile(`^\d{1,2}/\d{1,2}/(\d{4})$`)

// Statements scrapes the annual income statement, balance sheet and cash flow pages.
// A page that fails is skipped; ErrNotFound when every table comes back empty.
func (c *Client) Statements(ctx context.Context, symbol string) (*contracts.FinancialStatements, error) {
	out := &contracts.FinancialStatements{Symbol: symbol}
	tables := []*contracts.StatementTable{&out.Financials, &out.BalanceSheet, &out.CashFlow}

	var lastErr error
	for i, page := range statementPages {
		pageURL := fmt.Sprintf("%s/quote/%s/%s", c.baseURL, url.PathEscape(symbol), page)

		body, err := c.httpClient.GetBody(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol": symbol,
				"page":   page,
			}).Debug("Statement page unavailable")
			continue
		}

		table, err := parseStatement(body)
		if err != nil {
			lastErr = err
			continue
		}
		*tables[i] = table
	}

	if out.IsEmpty() {
		if lastErr != nil {
			return nil, fmt.Errorf("statements: %w", lastErr)
		}
		return nil, contracts.ErrNotFound
	}
	return out, nil
}

// parseStatement reads a period-by-line-item grid. The first row holds the periods.
func parseStatement(html []byte) (contracts.StatementTable, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	scale := 1.0
	if strings.Contains(doc.Text(), "All numbers in thousands") {
		scale = 1e3
	}

	table := contracts.StatementTable{}
	var periods []string
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}

		if periods == nil {
			cells.Slice(1, cells.Length()).Each(func(_ int, cell *goquery.Selection) {
				periods = append(periods, periodKey(cell.Text()))
			})
			return
		}

		item := lineItemKey(cells.Eq(0).Text())
		if item == "" {
			return
		}
		cells.Slice(1, cells.Length()).Each(func(i int, cell *goquery.Selection) {
			if i >= len(periods) || periods[i] == "" {
				return
			}
			v, ok := parseStatValue(cell.Text(), false)
			if !ok {
				return
			}
			if table[periods[i]] == nil {
				table[periods[i]] = map[string]float64{}
			}
			table[periods[i]][item] = v * scale
		})
	})

	return table, nil
}

// periodKey turns "12/31/2023" into "2023" and keeps labels such as "TTM"
func periodKey(s string) string {
	s = strings.TrimSpace(s)
	if m := fiscalYear.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// lineItemKey turns "Total Revenue" into "TotalRevenue"
func lineItemKey(s string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
