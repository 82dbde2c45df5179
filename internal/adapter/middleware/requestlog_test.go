package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(base))
	var inner *slog.Logger
	e.GET("/loans/:loan_id", func(c echo.Context) error {
		inner = Logger(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/loans/abc", nil))

	rid := rec.Header().Get(echo.HeaderXRequestID)
	if _, err := uuid.Parse(rid); err != nil {
		t.Fatalf("request id should be a uuid, got %q", rid)
	}
	if inner == nil || inner == base {
		t.Fatal("handler should see a request-scoped logger")
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v; raw=%s", err, buf.String())
	}
	if line["request_id"] != rid || line["path"] != "/loans/:loan_id" || line["level"] != "INFO" {
		t.Fatalf("unexpected line: %v", line)
	}
	if status, _ := line["status"].(float64); status != http.StatusNoContent {
		t.Fatalf("status = %v", line["status"])
	}
}

func TestRequestLogger_KeepsClientIDAndLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	e.POST("/loans", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "busy")
	})

	req := httptest.NewRequest(http.MethodPost, "/loans", nil)
	req.Header.Set(echo.HeaderXRequestID, "client-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != "client-123" {
		t.Fatalf("request id = %q", got)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v; raw=%s", err, buf.String())
	}
	if line["level"] != "WARN" || line["request_id"] != "client-123" {
		t.Fatalf("unexpected line: %v", line)
	}
}

func TestLogger_FallsBackToDefault(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if Logger(c) != slog.Default() {
		t.Fatal("want slog.Default outside a request")
	}
	if a := Actor(c); a != "" {
		t.Fatalf("actor = %q", a)
	}
}
