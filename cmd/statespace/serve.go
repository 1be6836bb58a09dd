package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/cli"
	"github.com/aretw0/statespace/internal/presentation/tui"
	httpAdapter "github.com/aretw0/statespace/pkg/adapters/http"
	"github.com/aretw0/statespace/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP server",
	Long:  `Starts the statespace engine in server mode, exposing a JSON API over HTTP with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)
		logger := cli.CreateLogger(cfg)
		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		metrics := observability.NewMetrics()
		engine, closeCache, err := cli.NewEngine(sc, cfg, logger, metrics.Hooks())
		if err != nil {
			fmt.Printf("Error initializing statespace: %v\n", err)
			os.Exit(1)
		}
		defer closeCache()

		handler, err := httpAdapter.NewHandler(engine,
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLimits(cli.RemoteLimits(cfg)),
		)
		if err != nil {
			fmt.Printf("Error initializing HTTP API: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting statespace server on %s\n", srv.Addr)
			if cfg.Sets.File != "" {
				fmt.Printf("Serving sets from: %s\n", cfg.Sets.File)
			} else if cfg.Sets.Dir != "" {
				fmt.Printf("Serving sets from: %s\n", cfg.Sets.Dir)
			}
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case <-sc.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", sc.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("statespace server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("cache", "none", "Export cache backend: none, memory or redis")
	serveCmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis cache")
	serveCmd.Flags().Duration("cache-ttl", time.Hour, "Expiry of cached exports (redis)")
	serveCmd.Flags().Int("max-states", 0, "Refuse to generate more states than this (0 means no limit)")
}
