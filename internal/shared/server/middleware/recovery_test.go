package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/telemetry"
)

func TestRecoveryReturnsStandardError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("exporter exploded")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"internal"`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	if !strings.Contains(buf.String(), "exporter exploded") {
		t.Fatalf("expected panic value in logs, got %s", buf.String())
	}
}

func TestRecoveryAfterPartialWriteKeepsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/partial", func(c *gin.Context) {
		c.Set("generationId", "gen-1")
		c.String(http.StatusOK, "%PDF-")
		panic("writer broke")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected original status, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), `"code":"internal"`) {
		t.Fatalf("error envelope appended to partial body: %s", resp.Body.String())
	}
	if !strings.Contains(buf.String(), `"generation_id":"gen-1"`) {
		t.Fatalf("expected generation id in logs, got %s", buf.String())
	}
}
