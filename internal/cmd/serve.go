package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atikulmunna/gastroguard/internal/hub"
	"github.com/atikulmunna/gastroguard/internal/model"
	"github.com/atikulmunna/gastroguard/internal/server"
	"github.com/atikulmunna/gastroguard/internal/simulator"
	"github.com/atikulmunna/gastroguard/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and live entry feed",
	Long: `Start an HTTP API. Every browser session gets its own in-memory log,
optionally seeded with a copy of your persisted entries. New entries are
streamed to websocket clients on /ws.

Examples:
  gastroguard serve
  gastroguard serve --addr 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var seed func() []model.LogEntry
	if cfg.Server.SeedSessions {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		persisted, err := s.All(ctx)
		s.Close()
		if err != nil {
			return fmt.Errorf("read entries: %w", err)
		}
		log.Info("seeding sessions", zap.Int("entries", len(persisted)))
		seed = func() []model.LogEntry { return persisted }
	}

	h := hub.New(log)
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		h.Start(hubCtx)
		close(hubDone)
	}()
	defer func() {
		stopHub()
		<-hubDone
	}()

	srv := server.New(server.Options{
		Sessions:  store.NewSessions(seed, store.SessionLimits{
			Max:  cfg.Server.MaxSessions,
			Idle: cfg.Server.SessionIdle,
		}),
		Hub:       h,
		Logger:    log,
		Simulator: simulator.New(simulator.Options{Clamp: cfg.Simulation.Clamp}),
		Field:     timeField(),
		Now:       now,
	})

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return srv.Run(ctx, addr)
}
