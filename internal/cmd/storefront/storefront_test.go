package storefront

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCHealthAddr != ":8081" {
		t.Fatalf("addrs = %q %q", cfg.HTTPAddr, cfg.GRPCHealthAddr)
	}
	if cfg.EventStore != "sqlite" || cfg.SQLitePath != "data/storefront.db" {
		t.Fatalf("store = %q %q", cfg.EventStore, cfg.SQLitePath)
	}
	if cfg.CheckpointStore != "store" || cfg.KafkaTopic != "storefront.events" {
		t.Fatalf("checkpoint = %q topic = %q", cfg.CheckpointStore, cfg.KafkaTopic)
	}
	if cfg.PollInterval != 500*time.Millisecond || cfg.BatchSize != 100 {
		t.Fatalf("poll = %v batch = %d", cfg.PollInterval, cfg.BatchSize)
	}
	if !cfg.StrictCurrency || cfg.RebuildProjections || cfg.RedisPublish {
		t.Fatalf("flags = %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.PostgresDSN != "" {
		t.Fatalf("dsn = %q, want none for sqlite", cfg.PostgresDSN)
	}
}

func TestParseConfigDerivesPostgresDSN(t *testing.T) {
	cfg, err := ParseConfig(flag.NewFlagSet("storefront", flag.ContinueOnError), []string{"-event-store", "Postgres"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.EventStore != "postgres" {
		t.Fatalf("store = %q", cfg.EventStore)
	}
	if cfg.PostgresDSN != "postgres://postgres@localhost:5432/storefront?sslmode=disable" {
		t.Fatalf("dsn = %q", cfg.PostgresDSN)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("STOREFRONT_EVENT_STORE", "postgres")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("STOREFRONT_POLL_INTERVAL", "2s")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", ":9000", "-rebuild-projections", "-batch-size", "10"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.EventStore != "postgres" || cfg.HTTPAddr != ":9000" {
		t.Fatalf("store = %q addr = %q", cfg.EventStore, cfg.HTTPAddr)
	}
	if !cfg.RebuildProjections || cfg.BatchSize != 10 || cfg.PollInterval != 2*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.PostgresDSN != "postgres://postgres:secret@db:5432/storefront?sslmode=disable" {
		t.Fatalf("dsn = %q", cfg.PostgresDSN)
	}
}

func TestParseConfigKafkaBrokersFlagOverridesEnv(t *testing.T) {
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092")
	cfg, err := ParseConfig(flag.NewFlagSet("storefront", flag.ContinueOnError), []string{"-kafka-brokers", " a:1 ,, b:2 "})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "a:1" || cfg.KafkaBrokers[1] != "b:2" {
		t.Fatalf("brokers = %q", cfg.KafkaBrokers)
	}
}

func TestParseConfigRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown event store", []string{"-event-store", "mongo"}},
		{"unknown checkpoint store", []string{"-checkpoint-store", "etcd"}},
		{"redis checkpoints without address", []string{"-checkpoint-store", "redis"}},
		{"redis publish without address", []string{"-redis-publish"}},
		{"zero poll interval", []string{"-poll-interval", "0s"}},
		{"zero batch size", []string{"-batch-size", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
			if _, err := ParseConfig(fs, tt.args); err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
		})
	}
}

func TestParseConfigExplicitDSNWins(t *testing.T) {
	t.Setenv("STOREFRONT_EVENT_STORE", "postgres")
	t.Setenv("STOREFRONT_POSTGRES_DSN", "postgres://x@y/z")
	cfg, err := ParseConfig(flag.NewFlagSet("storefront", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.PostgresDSN != "postgres://x@y/z" {
		t.Fatalf("dsn = %q", cfg.PostgresDSN)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(discard{})
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected flag error")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
