package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/koboriakira/stock-investment-2025/internal/contracts"
	"github.com/koboriakira/stock-investment-2025/internal/scheduler"
	"github.com/koboriakira/stock-investment-2025/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scheduled watchlist jobs",
	Long: `Start the scheduler or run a job by hand.

Registered jobs:
- cache_warm: WATCHLIST_WARM_SCHEDULE (pre-fetch the watchlist)
- watchlist_screening: WATCHLIST_SCHEDULE (screen WATCHLIST_SYMBOLS with WATCHLIST_PRESET)

Subcommands:
  start   - start the scheduler
  list    - list registered jobs
  run     - run one job now

Example:
  go run ./cmd/screener scheduler start
  go run ./cmd/screener scheduler run watchlist_screening`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now and wait for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers the watchlist jobs
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	criteria, err := a.presets.Resolve(a.cfg.Watchlist.Preset, contracts.ScreeningCriteria{})
	if err != nil {
		return nil, fmt.Errorf("watchlist preset: %w", err)
	}

	// One screening timeout per chunk plus one for the warm run
	symbols := a.cfg.Watchlist.Symbols
	chunks := len(jobs.Chunk(symbols, a.screener.MaxSymbols()))
	sched := scheduler.New(a.log, scheduler.WithTimeout(a.cfg.Screening.Timeout*time.Duration(chunks+1)))

	if err := sched.AddJob(jobs.NewCacheWarmJob(a.gateway, symbols, a.cfg.Watchlist.WarmSchedule, a.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewWatchlistJob(
		a.screener,
		a.store,
		symbols,
		criteria,
		a.screener.MaxSymbols(),
		a.cfg.Watchlist.Schedule,
		a.log,
	)); err != nil {
		return nil, err
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	if len(a.cfg.Watchlist.Symbols) == 0 {
		PrintWarning("WATCHLIST_SYMBOLS is empty; jobs will have nothing to do")
	}

	sched.Start()

	PrintSuccess("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s\n", name)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	printStats(sched)

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.Stats()
	widths := []int{22, 18}
	PrintTableHeader([]string{"Job", "Schedule"}, widths)
	for _, name := range sched.Jobs() {
		PrintTableRow([]string{name, stats[name].Schedule}, widths)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", args[0])
	result, err := sched.RunNow(args[0])
	if err != nil {
		return err
	}

	if outputJSON {
		return PrintJSON(result)
	}

	PrintKeyValue("Attempts", strconv.Itoa(result.Attempts), 10)
	PrintKeyValue("Duration", result.Duration.String(), 10)
	if !result.Success {
		return fmt.Errorf("job %s failed: %s", result.JobName, result.Error)
	}
	PrintSuccess("Job completed")
	return nil
}

// printStats prints the run statistics collected by this process
func printStats(sched *scheduler.Scheduler) {
	stats := sched.Stats()
	for _, name := range sched.Jobs() {
		st := stats[name]
		fmt.Printf("📊 %s\n", name)
		PrintKeyValue("Schedule", st.Schedule, 12)
		PrintKeyValue("Total Runs", strconv.Itoa(st.TotalRuns), 12)
		PrintKeyValue("Success", fmt.Sprintf("%d (%.1f%%)", st.SuccessCount, st.SuccessRate*100), 12)
		PrintKeyValue("Failures", strconv.Itoa(st.FailureCount), 12)
		if st.LastRun != nil {
			PrintKeyValue("Last Run", st.LastRun.Format("2006-01-02 15:04:05"), 12)
		}
		fmt.Println()
	}
}
