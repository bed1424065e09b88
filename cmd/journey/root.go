package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"journey-tracker/internal/config"
	"journey-tracker/internal/tui"
)

var v = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "journey",
	Short: "Track progress along a fixed list of stops",
	Long: `journey shows a linear journey as an ordered list of stops and tracks
how far along it you are.

With no subcommand it opens the interactive screen: mark stops as reached,
switch between kilometers and miles, and restart the journey.

The journey comes from --file (YAML or JSON), from a GTFS trip in Postgres
(--trip), or the built-in demo route.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("file", "f", "", "journey file (.yaml, .yml or .json)")
	pf.String("unit", "", "initial unit: metric or imperial")
	pf.String("trip", "", "GTFS trip_id to load from Postgres")
	pf.String("city", "", "resolve the latest imported GTFS database for this city")
	pf.String("shape-dist-unit", "", "unit of shape_dist_traveled in the GTFS feed: m or km (default m)")
	pf.String("nats-url", "", "NATS server for the display bus")
	pf.String("metrics-addr", "", "listen address for Prometheus metrics, e.g. :9102")
	pf.String("log-file", "", "write logs here while the screen is open")
	pf.Bool("nats-commands", false, "accept commands from the display bus")

	mustBind(v, config.KeyJourneyFile, pf.Lookup("file"))
	mustBind(v, config.KeyUnit, pf.Lookup("unit"))
	mustBind(v, config.KeyTripID, pf.Lookup("trip"))
	mustBind(v, config.KeyCity, pf.Lookup("city"))
	mustBind(v, config.KeyShapeDistUnit, pf.Lookup("shape-dist-unit"))
	mustBind(v, config.KeyNATSURL, pf.Lookup("nats-url"))
	mustBind(v, config.KeyMetricsAddr, pf.Lookup("metrics-addr"))
	mustBind(v, config.KeyLogFile, pf.Lookup("log-file"))
	mustBind(v, config.KeyNATSCommands, pf.Lookup("nats-commands"))

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func mustBind(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func runScreen(ctx context.Context) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	// Log output corrupts the display while the screen is open
	originalOutput := log.Writer()
	defer log.SetOutput(originalOutput)
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "journey")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	rt, err := start(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	program, _ := tui.NewProgram(ctx, rt.sess)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("screen: %w", err)
	}
	return nil
}
