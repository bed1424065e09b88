package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"journey-tracker/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the journey without a screen, driven by display bus commands",
	Long: `Run a journey session headless. Commands (advance, restart, toggle-unit)
arrive on <prefix>.<journey>.cmd and every state change is published to
<prefix>.<journey>.state. Requires --nats-url; command handling is always on.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v.Set(config.KeyNATSCommands, "true")
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if cfg.NATSURL == "" {
			return errors.New("serve needs --nats-url or NATS_URL")
		}
		ctx := cmd.Context()
		rt, err := start(ctx, cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		snap := rt.sess.Snapshot()
		log.Printf("session %s serving journey %q (%d stops, %s)", rt.sess.ID(), snap.Journey, len(snap.Stops), snap.Unit)
		<-ctx.Done()
		log.Println("shutdown complete")
		return nil
	},
}
