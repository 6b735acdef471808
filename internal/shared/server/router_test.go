package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/services/health"
	"coverletter-backend/internal/shared/config"
)

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := health.NewService()
	svc.Register("ollama", func(ctx context.Context) error { return errors.New("connection refused") })
	r := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}, Health: svc})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); !strings.Contains(body, `"ok":true`) || !strings.Contains(body, "connection refused") {
		t.Fatalf("unexpected health body %s", body)
	}
	if resp.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "letter_generation_started_total") {
		t.Fatalf("unexpected metrics response %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if resp.Code != http.StatusNotFound || !strings.Contains(resp.Body.String(), `"code":"not_found"`) {
		t.Fatalf("unexpected response %d: %s", resp.Code, resp.Body.String())
	}
}
