package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/koboriakira/stock-investment-2025/internal/api"
	"github.com/koboriakira/stock-investment-2025/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                           - Health check
  GET  /api/stocks/info/{symbol}         - Normalized fundamentals
  GET  /api/stocks/score/{symbol}        - Financial health score
  GET  /api/stocks/history/{symbol}      - Daily bars (?period=1y)
  GET  /api/stocks/search                - Symbol search (?query=&limit=)
  GET  /api/stocks/financial/{symbol}    - Financial statements
  GET  /api/stocks/presets               - Screening presets
  POST /api/stocks/screening             - Screen a batch of symbols
  GET  /api/stocks/screening/{id}        - Stored screening result (DATABASE_URL only)

Example:
  go run ./cmd/screener api
  go run ./cmd/screener api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default PORT)")
}

// searcher avoids handing the handler a typed nil
func (a *app) searcher() handlers.Searcher {
	if a.search == nil {
		return nil
	}
	return a.search
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log

	// Create handlers
	stockHandler := handlers.NewStockHandler(a.gateway, a.scores, a.history, a.searcher(), a.presets, log).
		WithStatements(a.statements)
	screeningHandler := handlers.NewScreeningHandler(a.screener, a.presets, a.store, log).
		WithTimeout(a.cfg.Screening.Timeout)

	// Create router and server
	router := api.NewRouter(stockHandler, screeningHandler, log)
	server := api.New(a.cfg, log, router)

	// Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
