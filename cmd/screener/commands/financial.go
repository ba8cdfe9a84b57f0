package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

var financialCmd = &cobra.Command{
	Use:     "financial SYMBOL",
	Short:   "Show annual financial statements",
	Example: "  go run ./cmd/screener financial AAPL",
	Args:    cobra.ExactArgs(1),
	RunE:    runFinancial,
}

func init() {
	rootCmd.AddCommand(financialCmd)
}

func runFinancial(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	symbol := contracts.NormalizeSymbol(args[0])
	st, err := a.statements.Statements(cmd.Context(), symbol)
	if err != nil {
		return describe(symbol, err)
	}

	if outputJSON {
		return PrintJSON(st)
	}

	PrintHeader(st.Symbol + "  financial statements")
	printStatement("Income Statement", st.Financials)
	printStatement("Balance Sheet", st.BalanceSheet)
	printStatement("Cash Flow", st.CashFlow)
	return nil
}

func printStatement(title string, table contracts.StatementTable) {
	fmt.Printf("\n%s\n", title)
	if len(table) == 0 {
		PrintWarning("No data")
		return
	}

	periods, items := statementAxes(table)
	headers := append([]string{"Item"}, periods...)
	widths := []int{28}
	for range periods {
		widths = append(widths, 12)
	}

	PrintTableHeader(headers, widths)
	for _, item := range items {
		row := []string{item}
		for _, p := range periods {
			v, ok := table[p][item]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, FormatLarge(&v))
		}
		PrintTableRow(row, widths)
	}
}

// statementAxes returns periods newest first and line items alphabetically
func statementAxes(table contracts.StatementTable) (periods, items []string) {
	seen := map[string]bool{}
	for p, row := range table {
		periods = append(periods, p)
		for item := range row {
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	sort.Strings(items)
	return periods, items
}
