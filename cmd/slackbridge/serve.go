package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/putchi/bedrock-slack-bot-integration/internal/agent"
	"github.com/putchi/bedrock-slack-bot-integration/internal/bridge"
	"github.com/putchi/bedrock-slack-bot-integration/internal/dedup"
	"github.com/putchi/bedrock-slack-bot-integration/internal/metrics"
	"github.com/putchi/bedrock-slack-bot-integration/internal/notify"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the events endpoint",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := dedup.NewRedis(dedup.RedisConfig{
		Addr:   cfg.RedisAddr,
		TLS:    cfg.RedisTLS,
		TTL:    cfg.DedupTTL,
		Logger: logger,
	})
	defer store.Close()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("aws config: %w", err)
	}

	orch := bridge.New(bridge.Config{
		BotUserID: cfg.SlackBotUserID,
		Store:     store,
		Agent: agent.New(awsCfg, agent.Config{
			AgentID:      cfg.AgentID,
			AgentAliasID: cfg.AgentAliasID,
			Logger:       logger,
		}),
		Notifier: notify.New(notify.Config{
			BotToken: cfg.SlackBotToken,
			Logger:   logger,
		}),
		Logger: logger,
	})

	events := bridge.NewHandler(bridge.HandlerConfig{
		Orchestrator:  orch,
		SigningSecret: cfg.SlackSigningSecret,
		Timeout:       cfg.HandleTimeout,
		Logger:        logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/metrics", metrics.Collector.Handler())
	r.Method(http.MethodPost, cfg.EventsPath, events)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("slackbridge starting",
		"addr", cfg.ListenAddr,
		"events_path", cfg.EventsPath,
		"agent_id", cfg.AgentID,
		"dedup_ttl", cfg.DedupTTL,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
}
