package config

import (
	"strings"
	"testing"
	"time"
)

func envFromMap(m map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		"SLACK_BOT_TOKEN":        "xoxb-test",
		"SLACK_BOT_USER_ID":      "U0BOT",
		"BEDROCK_AGENT_ID":       "AGENT1",
		"BEDROCK_AGENT_ALIAS_ID": "ALIAS1",
		"REDIS_ADDR":             "localhost:6379",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envFromMap(fullEnv()))
	if err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if cfg.DedupTTL != time.Hour {
		t.Errorf("expected 1h default TTL, got %v", cfg.DedupTTL)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected :8080 default, got %s", cfg.ListenAddr)
	}
	if cfg.EventsPath != "/slack/events" {
		t.Errorf("expected /slack/events default, got %s", cfg.EventsPath)
	}
	if cfg.AWSRegion != "us-east-1" {
		t.Errorf("expected us-east-1 default, got %s", cfg.AWSRegion)
	}
	if cfg.RedisTLS {
		t.Error("RedisTLS should default to false")
	}
}

func TestLoad_MissingRequired_ListsAll(t *testing.T) {
	_, err := Load(envFromMap(map[string]string{}))
	if err == nil {
		t.Fatal("expected error for empty environment")
	}
	for _, name := range []string{
		"SLACK_BOT_TOKEN",
		"SLACK_BOT_USER_ID",
		"BEDROCK_AGENT_ID",
		"BEDROCK_AGENT_ALIAS_ID",
		"REDIS_ADDR",
	} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should name missing %s, got: %v", name, err)
		}
	}
}

func TestLoad_DurationForms(t *testing.T) {
	env := fullEnv()
	env["DEDUP_TTL"] = "30m"
	env["HANDLE_TIMEOUT"] = "45"

	cfg, err := Load(envFromMap(env))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DedupTTL != 30*time.Minute {
		t.Errorf("expected 30m, got %v", cfg.DedupTTL)
	}
	if cfg.HandleTimeout != 45*time.Second {
		t.Errorf("bare number should parse as seconds, got %v", cfg.HandleTimeout)
	}
}

func TestLoad_RedisTLS(t *testing.T) {
	env := fullEnv()
	env["REDIS_TLS"] = "true"
	cfg, err := Load(envFromMap(env))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.RedisTLS {
		t.Error("expected RedisTLS=true")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	env := fullEnv()
	env["LOG_LEVEL"] = "verbose"
	if _, err := Load(envFromMap(env)); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidate_EventsPathMustBeRooted(t *testing.T) {
	env := fullEnv()
	env["EVENTS_PATH"] = "slack/events"
	if _, err := Load(envFromMap(env)); err == nil {
		t.Fatal("expected error for relative events path")
	}
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	env := fullEnv()
	env["DEDUP_TTL"] = "-1h"
	if _, err := Load(envFromMap(env)); err == nil {
		t.Fatal("expected error for negative TTL")
	}
}
