package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// statLabel maps a key-statistics row label prefix to a record key
type statLabel struct {
	prefix string
	key    string

	// keepPercent leaves "195.00%" as 195.0. Debt/equity is reported in percent units.
	keepPercent bool
}

// statLabels are matched in order; longer prefixes first where they overlap
var statLabels = []statLabel{
	{prefix: "Market Cap", key: "marketCap"},
	{prefix: "Trailing P/E", key: "trailingPE"},
	{prefix: "Forward P/E", key: "forwardPE"},
	{prefix: "PEG Ratio", key: "pegRatio"},
	{prefix: "Price/Book", key: "priceToBook"},
	{prefix: "Beta", key: "beta"},
	{prefix: "52 Week High", key: "fiftyTwoWeekHigh"},
	{prefix: "52 Week Low", key: "fiftyTwoWeekLow"},
	{prefix: "Avg Vol (3 month)", key: "averageVolume"},
	{prefix: "Shares Outstanding", key: "sharesOutstanding"},
	{prefix: "Float", key: "floatShares"},
	{prefix: "Forward Annual Dividend Yield", key: "dividendYield"},
	{prefix: "Profit Margin", key: "profitMargins"},
	{prefix: "Operating Margin", key: "operatingMargins"},
	{prefix: "Return on Assets", key: "returnOnAssets"},
	{prefix: "Return on Equity", key: "returnOnEquity"},
	{prefix: "Quarterly Revenue Growth", key: "revenueGrowth"},
	{prefix: "Quarterly Earnings Growth", key: "earningsGrowth"},
	{prefix: "Total Debt/Equity", key: "debtToEquity", keepPercent: true},
	{prefix: "Current Ratio", key: "currentRatio"},
}

// KeyStatistics scrapes ratio fundamentals the quote endpoint does not carry
func (c *Client) KeyStatistics(ctx context.Context, symbol string) (contracts.RawRecord, error) {
	pageURL := fmt.Sprintf("%s/quote/%s/key-statistics", c.baseURL, url.PathEscape(symbol))

	body, err := c.httpClient.GetBody(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("key statistics: %w", err)
	}

	record, err := parseKeyStatistics(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"fields": len(record),
	}).Debug("Parsed key statistics")

	return record, nil
}

func parseKeyStatistics(html []byte) (contracts.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse key statistics: %w", err)
	}

	record := contracts.RawRecord{}
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())

		for _, sl := range statLabels {
			if !strings.HasPrefix(label, sl.prefix) {
				continue
			}
			if _, seen := record[sl.key]; seen {
				return
			}
			if v, ok := parseStatValue(value, sl.keepPercent); ok {
				record[sl.key] = v
			}
			return
		}
	})

	return record, nil
}

var magnitudes = map[byte]float64{
	'k': 1e3,
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'T': 1e12,
}

// parseStatValue reads "147.25%", "3.02T", "1,234.5" or "N/A"
func parseStatValue(s string, keepPercent bool) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "N/A" || s == "--" {
		return 0, false
	}

	scale := 1.0
	switch last := s[len(s)-1]; {
	case last == '%':
		s = s[:len(s)-1]
		if !keepPercent {
			scale = 0.01
		}
	default:
		if m, ok := magnitudes[last]; ok {
			s = s[:len(s)-1]
			scale = m
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v * scale, true
}
