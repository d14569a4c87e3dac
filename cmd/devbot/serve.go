package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/cexll/devbot/internal/dispatcher"
	"github.com/cexll/devbot/internal/web"
	"github.com/cexll/devbot/internal/webhook"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review webhook and the run dashboard",
	Long: `Serve listens for GitHub pull request review webhooks and queues a
revision run whenever a reviewer requests changes. It also serves a
dashboard of past and in-flight runs. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

var listenAndServe = func(srv *http.Server) error { return srv.ListenAndServe() }

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, store, jobRunner, err := loadAndWire(ctx)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	queue := dispatcher.New(jobRunner, dispatcher.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
	})

	hook := webhook.NewHandler(cfg.WebhookSecret, queue, log.Default())

	dashboard, err := web.NewHandler(store)
	if err != nil {
		return fmt.Errorf("failed to initialize web handler: %w", err)
	}

	router := mux.NewRouter()
	router.HandleFunc("/webhook", hook.Handle).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	dashboard.RegisterRoutes(router)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	log.Printf("Server listening on %s", addr)
	log.Printf("Webhook endpoint: http://localhost%s/webhook", addr)
	log.Printf("Dashboard: http://localhost%s/", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := listenAndServe(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	queue.Shutdown(shutdownCtx)
	return nil
}
