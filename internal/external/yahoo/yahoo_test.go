package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/pkg/config"
	"github.com/koboriakira/stock-investment-2025/pkg/httputil"
	"github.com/koboriakira/stock-investment-2025/pkg/logger"
)

const keyStatsHTML = `<html><body>
<table>
<tr><td>Market Cap</td><td>3.02T</td></tr>
<tr><td>Trailing P/E</td><td>30.12</td></tr>
<tr><td>Forward P/E</td><td>28.50</td></tr>
<tr><td>Beta (5Y Monthly)</td><td>1.24</td></tr>
</table>
<table>
<tr><td>Profit Margin</td><td>25.31%</td></tr>
<tr><td>Return on Equity (ttm)</td><td>147.25%</td></tr>
<tr><td>Total Debt/Equity (mrq)</td><td>195.00%</td></tr>
<tr><td>Current Ratio (mrq)</td><td>1.07</td></tr>
<tr><td>Quarterly Earnings Growth (yoy)</td><td>N/A</td></tr>
<tr><td>Avg Vol (3 month) 3</td><td>58.4M</td></tr>
<tr><td>Only one cell</td></tr>
</table>
</body></html>`

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := &config.Config{Yahoo: config.YahooConfig{Timeout: 2 * time.Second}}
	hc := httputil.New(cfg, logger.Nop()).DisableRetry()
	return NewClient(hc, baseURL, logger.Nop())
}

func TestParseStatValue(t *testing.T) {
	tests := []struct {
		in          string
		keepPercent bool
		want        float64
		ok          bool
	}{
		{"147.25%", false, 1.4725, true},
		{"195.00%", true, 195.0, true},
		{"3.02T", false, 3.02e12, true},
		{"15.33B", false, 15.33e9, true},
		{"58.4M", false, 58.4e6, true},
		{"12.5k", false, 12500, true},
		{"1,234.5", false, 1234.5, true},
		{"N/A", false, 0, false},
		{"--", false, 0, false},
		{"", false, 0, false},
		{"abc", false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseStatValue(tt.in, tt.keepPercent)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-6)
			}
		})
	}
}

func TestKeyStatistics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/AAPL/key-statistics", r.URL.Path)
		_, _ = w.Write([]byte(keyStatsHTML))
	}))
	defer srv.Close()

	rec, err := newTestClient(t, srv.URL).KeyStatistics(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.InDelta(t, 3.02e12, rec["marketCap"], 1)
	assert.InDelta(t, 28.5, rec["forwardPE"], 1e-9)
	assert.InDelta(t, 1.24, rec["beta"], 1e-9)
	assert.InDelta(t, 0.2531, rec["profitMargins"], 1e-9)
	assert.InDelta(t, 1.4725, rec["returnOnEquity"], 1e-9)
	assert.InDelta(t, 195.0, rec["debtToEquity"], 1e-9)
	assert.InDelta(t, 1.07, rec["currentRatio"], 1e-9)
	assert.InDelta(t, 58.4e6, rec["averageVolume"], 1)
	assert.NotContains(t, rec, "earningsGrowth")
}

func TestKeyStatisticsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).KeyStatistics(context.Background(), "NOPE")
	assert.Error(t, err)
}

func TestQuoteDropsZeroValues(t *testing.T) {
	c := newTestClient(t, "").WithQuoteFunc(func(symbol string) (*finance.Equity, error) {
		e := &finance.Equity{}
		e.Symbol = symbol
		e.ShortName = "Apple"
		e.RegularMarketPrice = 190.5
		e.ForwardPE = 28.5
		e.TrailingPE = 0
		return e, nil
	})

	rec, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", rec["symbol"])
	assert.Equal(t, "Apple", rec["shortName"])
	assert.Equal(t, 190.5, rec["regularMarketPrice"])
	assert.Equal(t, 28.5, rec["forwardPE"])
	assert.NotContains(t, rec, "trailingPE")
	assert.NotContains(t, rec, "longName")
}

func TestQuoteErrors(t *testing.T) {
	boom := errors.New("boom")

	c := newTestClient(t, "").WithQuoteFunc(func(string) (*finance.Equity, error) { return nil, boom })
	_, err := c.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, boom)

	c.WithQuoteFunc(func(string) (*finance.Equity, error) { return nil, nil })
	_, err = c.Quote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Quote(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBars(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, "").WithBarsFunc(func(symbol string, s, e time.Time) ([]contracts.PriceBar, error) {
		assert.Equal(t, start, s)
		return []contracts.PriceBar{{Date: s, Close: 10}}, nil
	})

	bars, err := c.Bars(context.Background(), "AAPL", start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, bars, 1)

	c.WithBarsFunc(func(string, time.Time, time.Time) ([]contracts.PriceBar, error) { return nil, nil })
	_, err = c.Bars(context.Background(), "AAPL", start, start)
	assert.ErrorIs(t, err, contracts.ErrNotFound)
}

func TestConvertBar(t *testing.T) {
	bar := convertBar(&finance.ChartBar{
		Open:      decimal.NewFromFloat(100.5),
		High:      decimal.NewFromFloat(102),
		Low:       decimal.NewFromFloat(99.25),
		Close:     decimal.NewFromFloat(101),
		Volume:    1500,
		Timestamp: 1735689600,
	})

	assert.Equal(t, 100.5, bar.Open)
	assert.Equal(t, 102.0, bar.High)
	assert.Equal(t, 99.25, bar.Low)
	assert.Equal(t, 101.0, bar.Close)
	assert.Equal(t, int64(1500), bar.Volume)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), bar.Date)
}

const incomeHTML = `<html><body>
<p>All numbers in thousands</p>
<table>
<tr><th>Breakdown</th><th>TTM</th><th>9/30/2023</th><th>9/30/2022</th></tr>
<tr><td>Total Revenue</td><td>385,706,000</td><td>383,285,000</td><td>394,328,000</td></tr>
<tr><td>Net Income</td><td>100,389,000</td><td>96,995,000</td><td>--</td></tr>
<tr><td></td><td>1</td><td>2</td><td>3</td></tr>
</table>
</body></html>`

const cashFlowHTML = `<html><body>
<table>
<tr><td>Breakdown</td><td>12/31/2023</td></tr>
<tr><td>Free Cash Flow</td><td>84.73B</td></tr>
</table>
</body></html>`

func TestParseStatement(t *testing.T) {
	table, err := parseStatement([]byte(incomeHTML))
	require.NoError(t, err)

	require.Contains(t, table, "TTM")
	require.Contains(t, table, "2023")
	require.Contains(t, table, "2022")
	assert.InDelta(t, 383285000000, table["2023"]["TotalRevenue"], 1)
	assert.InDelta(t, 96995000000, table["2023"]["NetIncome"], 1)
	assert.NotContains(t, table["2022"], "NetIncome")
	assert.Len(t, table["TTM"], 2)
}

func TestPeriodAndLineItemKeys(t *testing.T) {
	assert.Equal(t, "2023", periodKey(" 12/31/2023 "))
	assert.Equal(t, "TTM", periodKey("TTM"))
	assert.Equal(t, "TotalRevenue", lineItemKey("Total Revenue"))
	assert.Equal(t, "NetIncomeCommonStockholders", lineItemKey("Net Income Common Stockholders"))
	assert.Equal(t, "", lineItemKey("  "))
}

func TestStatements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote/AAPL/financials":
			_, _ = w.Write([]byte(incomeHTML))
		case "/quote/AAPL/cash-flow":
			_, _ = w.Write([]byte(cashFlowHTML))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	st, err := newTestClient(t, srv.URL).Statements(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", st.Symbol)
	assert.InDelta(t, 383285000000, st.Financials["2023"]["TotalRevenue"], 1)
	assert.Empty(t, st.BalanceSheet)
	assert.InDelta(t, 84.73e9, st.CashFlow["2023"]["FreeCashFlow"], 1)
}

func TestStatementsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>No data</p></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Statements(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNotFound)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer failing.Close()

	_, err = newTestClient(t, failing.URL).Statements(context.Background(), "NOPE")
	require.Error(t, err)
	assert.NotErrorIs(t, err, contracts.ErrNotFound)
}
