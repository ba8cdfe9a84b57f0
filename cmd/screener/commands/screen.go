package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen SYMBOL...",
	Short: "Screen a batch of symbols",
	Long: `Fetch, score and filter a batch of symbols.

Thresholds come from --preset and are overridden by explicit flags.
Unknown symbols are dropped from the results; results are ordered by score.`,
	Example: `  go run ./cmd/screener screen AAPL MSFT GOOGL --max-pe 30
  go run ./cmd/screener screen 6758.T 9984.T 7203.T --preset value --save`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

// presetsCmd lists named presets
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List screening presets",
	RunE:  runPresets,
}

var (
	screenPreset string
	screenSave   bool
)

// thresholdFlags binds one float flag per criterion
var thresholdFlags = []struct {
	name  string
	usage string
	set   func(c *contracts.ScreeningCriteria, v float64)
}{
	{"min-market-cap", "minimum market capitalization", func(c *contracts.ScreeningCriteria, v float64) { c.MinMarketCap = &v }},
	{"max-pe", "maximum P/E ratio", func(c *contracts.ScreeningCriteria, v float64) { c.MaxPERatio = &v }},
	{"min-roe", "minimum return on equity (0.15 = 15%)", func(c *contracts.ScreeningCriteria, v float64) { c.MinROE = &v }},
	{"max-debt-to-equity", "maximum debt to equity", func(c *contracts.ScreeningCriteria, v float64) { c.MaxDebtToEquity = &v }},
	{"min-current-ratio", "minimum current ratio", func(c *contracts.ScreeningCriteria, v float64) { c.MinCurrentRatio = &v }},
}

func init() {
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(presetsCmd)

	screenCmd.Flags().StringVar(&screenPreset, "preset", "", "named preset (see: screener presets)")
	screenCmd.Flags().BoolVar(&screenSave, "save", false, "store the result (needs DATABASE_URL)")
	for _, f := range thresholdFlags {
		screenCmd.Flags().Float64(f.name, 0, f.usage)
	}
}

// explicitCriteria reads only the threshold flags the user actually set
func explicitCriteria(cmd *cobra.Command) (contracts.ScreeningCriteria, error) {
	var c contracts.ScreeningCriteria
	for _, f := range thresholdFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			return c, err
		}
		f.set(&c, v)
	}
	return c, nil
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	explicit, err := explicitCriteria(cmd)
	if err != nil {
		return err
	}
	criteria, err := a.presets.Resolve(screenPreset, explicit)
	if err != nil {
		return err
	}

	result, err := a.screener.Screen(cmd.Context(), args, criteria)
	if err != nil {
		return err
	}

	if screenSave {
		if a.store == nil {
			PrintWarning("DATABASE_URL is not set; result not saved")
		} else if err := a.store.Save(cmd.Context(), result); err != nil {
			return fmt.Errorf("save screening result: %w", err)
		}
	}

	if outputJSON {
		return PrintJSON(result)
	}

	PrintHeader(fmt.Sprintf("Screening %s", result.RequestID))
	PrintKeyValue("Symbols", strconv.Itoa(result.TotalSymbols), 10)
	PrintKeyValue("Returned", strconv.Itoa(len(result.Results)), 10)
	PrintKeyValue("Passed", strconv.Itoa(result.PassedSymbols), 10)
	PrintKeyValue("Elapsed", fmt.Sprintf("%.3fs", result.ExecutionTime), 10)
	PrintSeparator()

	widths := []int{8, 28, 6, 10, 7, 7, 8, 6, 24}
	PrintTableHeader([]string{"Symbol", "Name", "Score", "MarketCap", "P/E", "ROE", "D/E", "CR", "Result"}, widths)
	for _, item := range result.Results {
		verdict := "PASS"
		if !item.MeetsCriteria {
			verdict = "fail: " + strings.Join(item.FailedCriteria, ",")
		}
		PrintTableRow([]string{
			item.Symbol,
			truncate(item.Name, 28),
			strconv.FormatFloat(item.Score, 'f', 2, 64),
			FormatLarge(item.MarketCap),
			FormatFloat(item.PERatio, 1),
			FormatFloat(item.ROE, 3),
			FormatFloat(item.DebtToEquity, 1),
			FormatFloat(item.CurrentRatio, 2),
			verdict,
		}, widths)
	}

	if screenSave && a.store != nil {
		fmt.Println()
		PrintSuccess("Saved as " + result.RequestID)
	}
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	all := a.presets.All()
	if outputJSON {
		return PrintJSON(all)
	}

	for _, p := range all {
		PrintHeader(p.Name)
		fmt.Printf("   %s\n", p.Description)
		PrintKeyValue("min_market_cap", FormatLarge(p.Criteria.MinMarketCap), 18)
		PrintKeyValue("max_pe_ratio", FormatFloat(p.Criteria.MaxPERatio, 2), 18)
		PrintKeyValue("min_roe", FormatFloat(p.Criteria.MinROE, 4), 18)
		PrintKeyValue("max_debt_to_equity", FormatFloat(p.Criteria.MaxDebtToEquity, 2), 18)
		PrintKeyValue("min_current_ratio", FormatFloat(p.Criteria.MinCurrentRatio, 2), 18)
	}
	return nil
}

// truncate shortens s to n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
