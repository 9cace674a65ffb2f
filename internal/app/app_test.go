package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skill-upcycle/internal/config"
	"skill-upcycle/internal/infrastructure/report"
	"skill-upcycle/internal/repository"
	"skill-upcycle/internal/session"
	"skill-upcycle/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func TestListenAddr(t *testing.T) {
	cases := map[string]string{"8080": ":8080", ":9090": ":9090", " 80 ": ":80"}
	for in, want := range cases {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q)=(%q,%v) want %q", in, got, err, want)
		}
	}
	if _, err := ListenAddr(" "); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func offlineConfig() config.Config {
	return config.Config{
		App:         config.AppConfig{AppName: "skill-upcycle-test", HTTPPort: "0"},
		Redis:       config.RedisConfig{Host: "127.0.0.1", Port: "1"},
		JWT:         config.JWTConfig{AccessSecret: "a", RefreshSecret: "r", AccessExpiresIn: time.Minute, RefreshExpiresIn: time.Hour},
		AnalysisAPI: config.AnalysisAPIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Upload:      config.UploadConfig{MaxBytes: 1 << 20, StepInterval: 10 * time.Millisecond},
		Session:     config.SessionConfig{TTL: time.Hour, PendingTTL: time.Hour, CookieName: "anon_sid"},
		Worker:      config.WorkerConfig{Workers: 1, Buffer: 4},
	}
}

func TestContainerFallsBackWithoutBackends(t *testing.T) {
	cfg := offlineConfig()
	c, err := NewContainer(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	c.Start()
	defer func() {
		if err := c.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	if c.Redis.Available() {
		t.Skip("something is listening on 127.0.0.1:1")
	}
	if _, ok := c.Sessions.(*session.MemoryStore); !ok {
		t.Fatalf("expected in-memory session store, got %T", c.Sessions)
	}
	if _, ok := c.Locker.(*usecase.LocalLocker); !ok {
		t.Fatalf("expected local locker, got %T", c.Locker)
	}
	if _, ok := c.History.(*repository.MemoryAnalysisHistoryRepository); !ok {
		t.Fatalf("expected in-memory history, got %T", c.History)
	}
	if _, ok := c.Printer.(report.DisabledPrinter); !ok {
		t.Fatalf("expected disabled printer, got %T", c.Printer)
	}

	app := New(cfg, c)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), fiber.TestConfig{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status=%d", resp.StatusCode)
	}
	var env struct {
		Data struct {
			Dependencies map[string]string `json:"dependencies"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if env.Data.Dependencies["redis"] != "down" {
		t.Fatalf("redis dependency=%q", env.Data.Dependencies["redis"])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("missing request id header")
	}

	resp, err = app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dashboard without token status=%d", resp.StatusCode)
	}
}
