package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/search"
)

var (
	infoCmd = &cobra.Command{
		Use:     "info SYMBOL",
		Short:   "Show normalized fundamentals",
		Example: "  go run ./cmd/screener info AAPL",
		Args:    cobra.ExactArgs(1),
		RunE:    runInfo,
	}

	scoreCmd = &cobra.Command{
		Use:     "score SYMBOL",
		Short:   "Compute the financial health score",
		Example: "  go run ./cmd/screener score 7203.T",
		Args:    cobra.ExactArgs(1),
		RunE:    runScore,
	}

	historyCmd = &cobra.Command{
		Use:     "history SYMBOL",
		Short:   "Show daily price bars",
		Example: "  go run ./cmd/screener history MSFT --period 1mo",
		Args:    cobra.ExactArgs(1),
		RunE:    runHistory,
	}

	searchCmd = &cobra.Command{
		Use:     "search QUERY",
		Short:   "Search symbols by ticker, name or sector",
		Example: "  go run ./cmd/screener search technology --limit 5",
		Args:    cobra.ExactArgs(1),
		RunE:    runSearch,
	}
)

var (
	historyPeriod string
	searchLimit   int
)

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(searchCmd)

	historyCmd.Flags().StringVar(&historyPeriod, "period", contracts.DefaultHistoryPeriod, "1d|5d|1mo|3mo|6mo|1y|2y|5y|10y|ytd|max")
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "maximum results (1-50)")
}

// describe turns the error taxonomy into a CLI message
func describe(symbol string, err error) error {
	if errors.Is(err, contracts.ErrNotFound) {
		return fmt.Errorf("%s: no data available", symbol)
	}
	return err
}

func runInfo(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := contracts.NormalizeSymbol(args[0])
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return err
	}

	stock, err := a.gateway.Fetch(cmd.Context(), symbol)
	if err != nil {
		return describe(symbol, err)
	}

	if outputJSON {
		return PrintJSON(stock)
	}

	PrintHeader(fmt.Sprintf("%s  %s", stock.Symbol, stock.Name))
	rows := []struct{ k, v string }{
		{"Sector", stock.Sector},
		{"Industry", stock.Industry},
		{"Price", FormatFloat(stock.CurrentPrice, 2)},
		{"Market Cap", FormatLarge(stock.MarketCap)},
		{"P/E", FormatFloat(stock.PERatio, 2)},
		{"P/B", FormatFloat(stock.PBRatio, 2)},
		{"Dividend Yield", FormatFloat(stock.DividendYield, 4)},
		{"ROE", FormatFloat(stock.ROE, 4)},
		{"Debt/Equity", FormatFloat(stock.DebtToEquity, 2)},
		{"Current Ratio", FormatFloat(stock.CurrentRatio, 2)},
		{"Profit Margin", FormatFloat(stock.ProfitMargin, 4)},
		{"Revenue Growth", FormatFloat(stock.RevenueGrowth, 4)},
		{"52w High / Low", FormatFloat(stock.FiftyTwoWeekHigh, 2) + " / " + FormatFloat(stock.FiftyTwoWeekLow, 2)},
		{"Volume", FormatInt(stock.Volume)},
	}
	for _, r := range rows {
		PrintKeyValue(r.k, r.v, 16)
	}
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := contracts.NormalizeSymbol(args[0])
	if err := contracts.ValidateSymbol(symbol); err != nil {
		return err
	}

	result, err := a.scores.ScoreSymbol(cmd.Context(), symbol)
	if err != nil {
		return describe(symbol, err)
	}

	if outputJSON {
		return PrintJSON(result)
	}

	PrintHeader(fmt.Sprintf("%s  overall %.2f / 10", result.Symbol, result.OverallScore))
	for _, s := range result.SubScores {
		PrintKeyValue(s.Name, strconv.FormatFloat(s.Value, 'f', 2, 64), 16)
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	series, err := a.history.History(cmd.Context(), args[0], historyPeriod)
	if err != nil {
		return describe(args[0], err)
	}

	if outputJSON {
		return PrintJSON(series)
	}

	title := fmt.Sprintf("%s  %s  (%d bars)", series.Symbol, series.Period, len(series.Bars))
	if series.Synthetic {
		title += "  synthetic"
	}
	PrintHeader(title)

	widths := []int{10, 10, 10, 10, 10, 12}
	PrintTableHeader([]string{"Date", "Open", "High", "Low", "Close", "Volume"}, widths)
	for _, b := range series.Bars {
		PrintTableRow([]string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'f', 2, 64),
			strconv.FormatFloat(b.High, 'f', 2, 64),
			strconv.FormatFloat(b.Low, 'f', 2, 64),
			strconv.FormatFloat(b.Close, 'f', 2, 64),
			strconv.FormatInt(b.Volume, 10),
		}, widths)
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.search == nil {
		return errors.New("search needs the fixture table (FIXTURES_ENABLED=true)")
	}

	results, err := a.search.Search(cmd.Context(), args[0], searchLimit)
	if err != nil {
		return err
	}

	if outputJSON {
		return PrintJSON(results)
	}

	if len(results) == 0 {
		PrintWarning("No matches")
		return nil
	}

	widths := []int{8, 36, 22, 9}
	PrintTableHeader([]string{"Symbol", "Name", "Sector", "Relevance"}, widths)
	for _, r := range results {
		PrintTableRow([]string{r.Symbol, r.Name, r.Sector, strconv.FormatFloat(r.Relevance, 'f', 2, 64)}, widths)
	}
	return nil
}
