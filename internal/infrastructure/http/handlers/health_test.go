package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okCheck(name string) Check {
	return Check{Name: name, Ping: func(context.Context) error { return nil }}
}

func failingCheck(name string, optional bool) Check {
	return Check{Name: name, Optional: optional, Ping: func(context.Context) error { return errors.New("connection refused") }}
}

func serveReadiness(t *testing.T, h *ReadinessHandler) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness_AllHealthy(t *testing.T) {
	code, resp := serveReadiness(t, NewReadinessHandler(okCheck("mongodb"), okCheck("redis")))
	if code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("unexpected %d %+v", code, resp)
	}
}

func TestReadiness_RequiredDependencyDown(t *testing.T) {
	code, resp := serveReadiness(t, NewReadinessHandler(failingCheck("mongodb", false), okCheck("redis")))
	if code != http.StatusServiceUnavailable || resp.Status != "unavailable" {
		t.Fatalf("unexpected %d %+v", code, resp)
	}
	if resp.Dependencies["mongodb"].Error == "" {
		t.Fatal("expected error detail for mongodb")
	}
}

func TestReadiness_OptionalDependencyDown(t *testing.T) {
	code, resp := serveReadiness(t, NewReadinessHandler(okCheck("mongodb"), failingCheck("redis", true)))
	if code != http.StatusOK || resp.Status != "degraded" {
		t.Fatalf("unexpected %d %+v", code, resp)
	}
	if resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("expected redis unhealthy, got %+v", resp.Dependencies["redis"])
	}
}
