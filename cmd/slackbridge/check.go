package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/putchi/bedrock-slack-bot-integration/internal/dedup"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and probe the dedup store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			fmt.Println("config: ok")

			store := dedup.NewRedis(dedup.RedisConfig{
				Addr:   cfg.RedisAddr,
				TLS:    cfg.RedisTLS,
				TTL:    cfg.DedupTTL,
				Logger: logger,
			})
			defer store.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			fmt.Printf("redis: ok (%s)\n", cfg.RedisAddr)
			return nil
		},
	}
}
