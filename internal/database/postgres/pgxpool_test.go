package postgres

import (
	"strings"
	"testing"
	"time"

	"skill-upcycle/internal/config"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	got := DSN(config.DatabaseConfig{
		DBHost:     "db",
		DBPort:     "5432",
		DBName:     "upcycle",
		DBUser:     "app",
		DBPassword: "p@ss/word",
		DBSSLMode:  "disable",
	})
	if !strings.HasPrefix(got, "postgres://app:p%40ss%2Fword@db:5432/upcycle") {
		t.Fatalf("unexpected dsn: %s", got)
	}
	if !strings.HasSuffix(got, "?sslmode=disable") {
		t.Fatalf("missing sslmode: %s", got)
	}
}

func TestPoolConfig_AppliesTuning(t *testing.T) {
	pcfg, err := PoolConfig(config.DatabaseConfig{
		DBHost:              "db",
		DBPort:              "5432",
		DBName:              "upcycle",
		DBUser:              "app",
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        7,
		PoolMaxConnLifetime: 10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("PoolConfig: %v", err)
	}
	if pcfg.MaxConns != 7 {
		t.Fatalf("MaxConns = %d", pcfg.MaxConns)
	}
	if pcfg.MaxConnLifetime != 10*time.Minute {
		t.Fatalf("MaxConnLifetime = %s", pcfg.MaxConnLifetime)
	}
	if pcfg.ConnConfig.ConnectTimeout != 3*time.Second {
		t.Fatalf("ConnectTimeout = %s", pcfg.ConnConfig.ConnectTimeout)
	}
	if pcfg.ConnConfig.Database != "upcycle" {
		t.Fatalf("Database = %q", pcfg.ConnConfig.Database)
	}
}
