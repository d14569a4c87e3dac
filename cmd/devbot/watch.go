package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/cexll/devbot/internal/dispatcher"
	"github.com/cexll/devbot/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the plans directory and run new plans as they appear",
	Long: `Watch monitors the configured plans directory and queues every markdown
file dropped into it. Runs against the same checkout execute one at a
time; additional plans wait their turn. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, _, jobRunner, err := loadAndWire(ctx)
	if err != nil {
		return err
	}

	queue := dispatcher.New(jobRunner, dispatcher.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
	})

	planWatcher, err := watcher.New(cfg.PlansPath(), queue, log.Default())
	if err != nil {
		return err
	}
	planWatcher.Start()

	<-ctx.Done()

	log.Printf("Shutting down...")
	planWatcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	return nil
}
