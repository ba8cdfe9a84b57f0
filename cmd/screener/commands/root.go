package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	outputJSON bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Stock fundamentals, scoring and screening",
	Long: `Stock Screener CLI

Normalizes fundamentals from fixture and Yahoo Finance sources,
computes a 0-10 financial health score and screens symbol batches.

Usage:
  go run ./cmd/screener [command]

Examples:
  go run ./cmd/screener api
  go run ./cmd/screener info AAPL
  go run ./cmd/screener screen AAPL MSFT 7203.T --preset value
  go run ./cmd/screener history 6758.T --period 3mo`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
