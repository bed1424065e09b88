package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"journey-tracker/internal/config"
	"journey-tracker/internal/journey"
	"journey-tracker/internal/session"
	"journey-tracker/internal/source"
)

var (
	showAdvance int
	showExport  bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the journey and its progress as text",
	Long: `Print every stop with its distance to the next stop and its state,
followed by the covered and remaining distance.

Use --advance to mark that many stops as reached first, and --export to
print the journey as a YAML file that --file accepts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showAdvance < 0 {
			return fmt.Errorf("--advance must not be negative")
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		j, err := source.Resolve(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if showExport {
			return source.Encode(os.Stdout, j)
		}
		snap, err := advanceN(cmd.Context(), j, cfg.Unit, showAdvance)
		if err != nil {
			return err
		}
		printJourney(os.Stdout, snap)
		return nil
	},
}

func init() {
	showCmd.Flags().IntVarP(&showAdvance, "advance", "n", 0, "number of stops to mark as reached")
	showCmd.Flags().BoolVar(&showExport, "export", false, "print the journey as YAML instead")
}

func advanceN(ctx context.Context, j *journey.Journey, unit journey.Unit, n int) (journey.Snapshot, error) {
	sess := session.New(j, unit, nil, nil)
	snap := sess.Snapshot()
	for i := 0; i < n && !snap.Finished; i++ {
		var err error
		if snap, err = sess.Apply(ctx, session.Advance); err != nil {
			return journey.Snapshot{}, err
		}
	}
	return snap, nil
}

func printJourney(w io.Writer, snap journey.Snapshot) {
	bold := color.New(color.Bold)
	current := color.New(color.FgBlack, color.BgYellow)
	covered := color.New(color.FgGreen)
	plain := color.New(color.Reset)

	bold.Fprintln(w, snap.Journey)
	for _, st := range snap.Stops {
		c := plain
		marker := " "
		switch st.Highlight {
		case journey.Current:
			c, marker = current, ">"
		case journey.Covered:
			c, marker = covered, "✓"
		}
		c.Fprintf(w, "%s %2d  %-30s %14s", marker, st.Index+1, st.Name, st.Distance)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Distance Covered: %s\n", snap.CoveredText)
	fmt.Fprintf(w, "Total Distance Left: %s\n", snap.RemainingText)
	if snap.Finished {
		covered.Fprintln(w, "Journey complete")
	}
}
