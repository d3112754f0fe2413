// Package config provides environment-based application configuration.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Env abstracts environment lookup so tests can substitute a map.
type Env func(key string) (string, bool)

// Config holds everything the bridge needs at process start.
type Config struct {
	// Slack
	SlackBotToken      string // xoxb- token for chat.postMessage
	SlackBotUserID     string // the bot's own user ID, used for self-filtering and mention stripping
	SlackSigningSecret string // empty disables request signature verification

	// Bedrock agent
	AgentID      string
	AgentAliasID string
	AWSRegion    string

	// Dedup store
	RedisAddr string
	RedisTLS  bool
	DedupTTL  time.Duration

	// HTTP server
	ListenAddr string
	EventsPath string

	// Per-event processing deadline covering dedup, agent, and notify calls.
	HandleTimeout time.Duration

	// Logging
	LogLevel  string // debug | info | warn | error
	LogFormat string // text | json
}

// Load reads configuration from env and fails fast on anything missing or invalid.
func Load(env Env) (*Config, error) {
	cfg := &Config{
		SlackBotToken:      getStr(env, "SLACK_BOT_TOKEN", ""),
		SlackBotUserID:     getStr(env, "SLACK_BOT_USER_ID", ""),
		SlackSigningSecret: getStr(env, "SLACK_SIGNING_SECRET", ""),
		AgentID:            getStr(env, "BEDROCK_AGENT_ID", ""),
		AgentAliasID:       getStr(env, "BEDROCK_AGENT_ALIAS_ID", ""),
		AWSRegion:          getStr(env, "AWS_REGION", "us-east-1"),
		RedisAddr:          getStr(env, "REDIS_ADDR", ""),
		RedisTLS:           getBool(env, "REDIS_TLS", false),
		DedupTTL:           getDuration(env, "DEDUP_TTL", time.Hour),
		ListenAddr:         getStr(env, "LISTEN_ADDR", ":8080"),
		EventsPath:         getStr(env, "EVENTS_PATH", "/slack/events"),
		HandleTimeout:      getDuration(env, "HANDLE_TIMEOUT", 60*time.Second),
		LogLevel:           getStr(env, "LOG_LEVEL", "info"),
		LogFormat:          getStr(env, "LOG_FORMAT", "text"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded config. All problems are reported together so an
// operator fixes the environment in one pass instead of one variable at a time.
func Validate(cfg *Config) error {
	var errs []string

	required := []struct {
		name  string
		value string
	}{
		{"SLACK_BOT_TOKEN", cfg.SlackBotToken},
		{"SLACK_BOT_USER_ID", cfg.SlackBotUserID},
		{"BEDROCK_AGENT_ID", cfg.AgentID},
		{"BEDROCK_AGENT_ALIAS_ID", cfg.AgentAliasID},
		{"REDIS_ADDR", cfg.RedisAddr},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", r.name))
		}
	}

	if cfg.DedupTTL <= 0 {
		errs = append(errs, "DEDUP_TTL must be a positive duration")
	}
	if cfg.HandleTimeout <= 0 {
		errs = append(errs, "HANDLE_TIMEOUT must be a positive duration")
	}
	if !strings.HasPrefix(cfg.EventsPath, "/") {
		errs = append(errs, "EVENTS_PATH must start with /")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "LOG_LEVEL must be one of: debug, info, warn, error")
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, "LOG_FORMAT must be one of: text, json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func getStr(env Env, key, fallback string) string {
	if v, ok := env(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(env Env, key string, fallback bool) bool {
	v, ok := env(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getDuration(env Env, key string, fallback time.Duration) time.Duration {
	v, ok := env(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are accepted as seconds, matching the store's TTL unit.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
