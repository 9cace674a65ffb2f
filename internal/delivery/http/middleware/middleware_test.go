package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":        {"Bearer abc", "abc", true},
		"case":         {"bearer abc", "abc", true},
		"empty":        {"", "", false},
		"basic scheme": {"Basic abc", "", false},
		"no token":     {"Bearer   ", "", false},
	}
	for name, tc := range cases {
		tok, ok := BearerToken(tc.header)
		if ok != tc.ok || tok != tc.token {
			t.Fatalf("%s: got (%q,%v) want (%q,%v)", name, tok, ok, tc.token, tc.ok)
		}
	}
}

func TestNormalizeErrorHidesServerErrors(t *testing.T) {
	status, msg, data := normalizeError(NewAppError(http.StatusBadGateway, "upstream 10.0.0.3 refused", map[string]string{"k": "v"}, nil))
	if status != http.StatusBadGateway || msg != "bad gateway" || data != nil {
		t.Fatalf("got (%d,%q,%v)", status, msg, data)
	}

	status, msg, _ = normalizeError(NewAppError(http.StatusConflict, "", nil, nil))
	if status != http.StatusConflict || msg != "conflict" {
		t.Fatalf("got (%d,%q)", status, msg)
	}

	status, _, _ = normalizeError(errors.New("plain"))
	if status != http.StatusInternalServerError {
		t.Fatalf("plain error status=%d", status)
	}
}

func TestErrorMiddlewareRecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var env struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "internal server error" {
		t.Fatalf("message=%q", env.Message)
	}
}

func TestAnonymousCookieIsStable(t *testing.T) {
	anon := NewAnonymousMiddleware("anon_sid", true, time.Hour)
	app := fiber.New()
	app.Use(anon.Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendString(AnonIDFrom(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	var issued *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "anon_sid" {
			issued = c
		}
	}
	if issued == nil || issued.Value != string(body) {
		t.Fatalf("cookie=%v body=%q", issued, body)
	}
	if !issued.HttpOnly || !issued.Secure {
		t.Fatalf("cookie flags: httponly=%v secure=%v", issued.HttpOnly, issued.Secure)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "anon_sid", Value: issued.Value})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	if string(body) != issued.Value {
		t.Fatalf("id changed: %q -> %q", issued.Value, body)
	}
	if len(resp.Cookies()) != 0 {
		t.Fatalf("cookie reissued for a known visitor")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "anon_sid", Value: "not-a-uuid"})
	resp, _ = app.Test(req)
	body, _ = io.ReadAll(resp.Body)
	if strings.Contains(string(body), "not-a-uuid") {
		t.Fatalf("malformed id accepted")
	}
}
