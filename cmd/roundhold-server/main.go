// Command roundhold-server runs the authoritative Roundhold match
// server: matchmaking, round orchestration, and the websocket transport
// that carries QueueForMatch/BuildTower/SendUnits/RoundAck.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"roundhold/internal/config"
	"roundhold/internal/match"
	"roundhold/internal/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile        string
		host           string
		port           int
		workerPoolSize int
		tickRate       int
		logLevel       string
	)

	cmd := &cobra.Command{
		Use:   "roundhold-server",
		Short: "Run the authoritative Roundhold round-engine server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(envFile)
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("workers") {
				cfg.WorkerPoolSize = workerPoolSize
			}
			if cmd.Flags().Changed("tick-rate") {
				cfg.TickRate = tickRate
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")
	cmd.Flags().StringVar(&host, "host", "", "bind host (overrides ROUNDHOLD_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "bind port (overrides ROUNDHOLD_PORT)")
	cmd.Flags().IntVar(&workerPoolSize, "workers", 0, "unary RPC worker pool size (overrides ROUNDHOLD_WORKER_POOL)")
	cmd.Flags().IntVar(&tickRate, "tick-rate", 0, "simulation tick rate in Hz (overrides ROUNDHOLD_TICK_RATE)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "logrus level (overrides ROUNDHOLD_LOG_LEVEL)")

	return cmd
}

func run(cfg config.Config) error {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	entry := log.WithField("component", "server")

	gateway := match.NewServer(log, cfg.TickRate)
	ts := transport.NewServer(gateway, entry, transport.Config{WorkerPoolSize: cfg.WorkerPoolSize})

	mux := http.NewServeMux()
	mux.Handle("/roundhold", ts)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		entry.WithField("addr", addr).Info("roundhold server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		entry.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
