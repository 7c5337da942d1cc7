package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.GET("/test", func(c *gin.Context) {
		c.Set("analysisId", "analysis-1")
		c.Set("cacheHit", true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	captured, _ := io.ReadAll(r)
	os.Stdout = orig

	line := ""
	for _, l := range strings.Split(string(bytes.TrimSpace(captured)), "\n") {
		if strings.Contains(l, "request.complete") {
			line = l
			break
		}
	}
	if line == "" {
		t.Fatalf("expected a request.complete log line, got %q", string(captured))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	for _, key := range []string{"request_id", "method", "path", "status", "duration_ms", "analysis_id", "cache_hit"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("log entry missing %q: %v", key, entry)
		}
	}
	if entry["analysis_id"] != "analysis-1" {
		t.Fatalf("expected analysis_id=analysis-1, got %v", entry["analysis_id"])
	}
}

func TestLoggingSkipsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Logging())
	router.OPTIONS("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	_ = w.Close()
	captured, _ := io.ReadAll(r)
	os.Stdout = orig

	if strings.Contains(string(captured), "request.complete") {
		t.Fatalf("expected no request log for OPTIONS, got %q", string(captured))
	}
}
