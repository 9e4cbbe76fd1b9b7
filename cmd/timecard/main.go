package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/timecard/internal/batch"
	"github.com/christopherklint97/timecard/internal/calendar"
	"github.com/christopherklint97/timecard/internal/config"
	"github.com/christopherklint97/timecard/internal/store"
	"github.com/christopherklint97/timecard/internal/timesheet"
	"github.com/christopherklint97/timecard/internal/ui"
)

var errNothingProcessed = errors.New("no timesheet was processed")

var rootCmd = &cobra.Command{
	Use:   "timecard <input-file-or-folder>",
	Short: "Turn stroškovnik timesheets into attendance reports",
	Long: "timecard reads stroškovnik timesheets (PDF or XLSX), derives arrival and departure times " +
		"from the daily hour totals and writes one attendance report per employee and month.",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProcess,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previously processed timesheets",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the config file",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Output PDF path (ignored when processing folders)")
	f.StringP("config", "c", "", "Configuration file (JSON, or TOML with a .toml extension)")
	f.String("arrival-time", "09:00", "Base arrival time (HH:MM)")
	f.Int("scattering", 10, "Maximum random offset around the arrival time, in minutes")
	f.Bool("secondary", false, "Also generate a secondary work report")
	f.String("secondary-name", "", "Name of the secondary work")
	f.Float64("secondary-percent", 0, "Secondary work as a percentage of a full day")
	f.Bool("secondary-no-breaks", false, "Leave breaks out of the secondary work")
	f.Uint64("seed", 0, "Seed for the time scattering, for reproducible output")
	f.Bool("csv", false, "Also write a CSV file per report")
	f.Bool("ics", false, "Also write an iCalendar file per report")
	f.Bool("notify", false, "Show a desktop notification when done")
	f.Bool("preview", false, "Print the generated days to the terminal")
	f.Bool("no-history", false, "Do not record this run in the history database")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")

	historyCmd.Flags().Int("limit", 20, "Number of documents to show")
	historyCmd.Flags().String("ics", "", "List the sessions of an exported calendar file instead")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNothingProcessed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// overridesFromFlags only carries flags the user actually set, so the
// config file keeps precedence over flag defaults.
func overridesFromFlags(cmd *cobra.Command) config.Overrides {
	f := cmd.Flags()
	var o config.Overrides

	if f.Changed("arrival-time") {
		v, _ := f.GetString("arrival-time")
		o.ArrivalTime = &v
	}
	if f.Changed("scattering") {
		v, _ := f.GetInt("scattering")
		o.ScatteringMinutes = &v
	}
	o.Secondary, _ = f.GetBool("secondary")
	o.SecondaryName, _ = f.GetString("secondary-name")
	o.SecondaryPercent, _ = f.GetFloat64("secondary-percent")
	o.SecondaryNoBreaks, _ = f.GetBool("secondary-no-breaks")
	o.WriteCSV, _ = f.GetBool("csv")
	o.WriteICS, _ = f.GetBool("ics")
	o.Notify, _ = f.GetBool("notify")
	o.NoHistory, _ = f.GetBool("no-history")
	return o
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := args[0]
	logger := newLogger(cmd)
	configPath, _ := cmd.Flags().GetString("config")
	output, _ := cmd.Flags().GetString("output")
	preview, _ := cmd.Flags().GetBool("preview")

	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, changed := loaded.Apply(overridesFromFlags(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if changed && configPath != "" {
		if err := config.Save(configPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save config to %s: %v\n", configPath, err)
		}
	}

	seed := rand.Uint64()
	if cmd.Flags().Changed("seed") {
		seed, _ = cmd.Flags().GetUint64("seed")
	}
	logger.Debug("scattering seed", "seed", seed)

	var db *store.DB
	if cfg.History {
		db, err = store.Open("")
		if err != nil {
			logger.Warn("history disabled", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	var notifier batch.Notifier
	if cfg.Notify {
		notifier = batch.DesktopNotifier()
	}

	proc, err := batch.New(cfg, timesheet.NewSeededSource(seed), db, notifier, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var sum batch.Summary
	if info, statErr := os.Stat(input); statErr == nil && info.IsDir() {
		sum, err = proc.ProcessFolder(ctx, input)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		sum.Add(proc.ProcessFile(ctx, input, output))
	}

	if preview {
		for _, r := range sum.Results {
			if !r.OK() {
				continue
			}
			fmt.Print(ui.RenderDays(r.Period, r.Records))
			if len(r.Secondary) > 0 {
				fmt.Print(ui.RenderDays(r.Period, r.Secondary))
			}
		}
	}
	fmt.Print(ui.RenderSummary(sum))

	if !sum.OK() {
		return errNothingProcessed
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if icsPath, _ := cmd.Flags().GetString("ics"); icsPath != "" {
		return listCalendar(icsPath)
	}

	db, err := store.Open("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	docs, err := db.ListDocuments(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	fmt.Print(ui.RenderHistory(docs))

	if last, err := db.GetState("last_run"); err == nil && last != "" {
		fmt.Printf("\nLast run: %s\n", last)
	}
	return nil
}

func listCalendar(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening calendar: %w", err)
	}
	defer f.Close()

	events, err := calendar.Read(f)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	total := 0
	for _, e := range events {
		mins := int(e.EndTime.Sub(e.StartTime).Minutes())
		fmt.Printf("  %s  %s–%s  %4dmin  %s\n",
			e.StartTime.Format("02.01.2006"),
			e.StartTime.Format("15:04"),
			e.EndTime.Format("15:04"),
			mins,
			e.Summary,
		)
		total += mins
	}
	fmt.Printf("\nTotal: %dh %dmin (%d sessions)\n", total/60, total%60, len(events))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	out, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
