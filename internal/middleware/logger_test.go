package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/dartpulse/internal/logger"
)

func TestToString(t *testing.T) {
	if s := toString(nil); s != "" {
		t.Fatalf("nil -> %q, want empty", s)
	}
	if s := toString("abc"); s != "abc" {
		t.Fatalf("string -> %q, want 'abc'", s)
	}
	if s := toString(123); s != "" {
		t.Fatalf("non-string -> %q, want empty", s)
	}
}

func TestRequestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/api/v1/corps/:corp_code", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/corps/00126380", nil))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not json: %v (%q)", err, buf.String())
	}
	if entry["route"] != "/api/v1/corps/:corp_code" || entry["path"] != "/api/v1/corps/00126380" {
		t.Fatalf("unexpected route/path: %v", entry)
	}
	if entry["level"] != "warn" || entry["status"] != float64(404) {
		t.Fatalf("unexpected level/status: %v", entry)
	}
	if entry["request_id"] != w.Header().Get(RequestIDHeader) {
		t.Fatalf("request id mismatch: %v", entry)
	}
	if entry["component"] != "http" {
		t.Fatalf("missing component: %v", entry)
	}
}
