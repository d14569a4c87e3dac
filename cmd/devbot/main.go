package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cexll/devbot/internal/config"
	"github.com/cexll/devbot/internal/runner"
	"github.com/cexll/devbot/internal/runstore"
)

// shutdownGrace bounds how long watch and serve wait for an in-flight
// run after a termination signal.
const shutdownGrace = 30 * time.Second

var (
	loadDotEnv = godotenv.Load
	newRunner  = runner.NewFromConfig
	exit       = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "devbot",
	Short: "Autonomous change-execution agent",
	Long: `devbot turns markdown change plans into pull requests. A plan is handed
to an AI model that edits a repository checkout through a small command
protocol; devbot commits the result, pushes a branch and opens a pull
request with an implementation report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file (ignore error if file doesn't exist)
		_ = loadDotEnv()
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("devbot: %v", err)
	}
}

// loadAndWire builds the runner stack every subcommand starts from.
func loadAndWire(ctx context.Context) (*config.Config, *runstore.Store, *runner.Runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store := runstore.NewStore()
	jobRunner, err := newRunner(ctx, cfg, store, log.Default())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, jobRunner, nil
}
