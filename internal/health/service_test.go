package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHealthReturnsUTCMillisTimestamp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	loc := time.FixedZone("CEST", 2*60*60)
	svc := &Service{now: func() time.Time {
		return time.Date(2026, time.March, 4, 12, 30, 5, 7_000_000, loc)
	}}

	r := gin.New()
	svc.RegisterRoutes(r.Group("/api"))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body Status
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Fatalf("unexpected status %q", body.Status)
	}
	if body.Timestamp != "2026-03-04T10:30:05.007Z" {
		t.Fatalf("unexpected timestamp %q", body.Timestamp)
	}
}

func TestNewServiceUsesWallClock(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)
	got, err := time.Parse(time.RFC3339Nano, NewService().Status().Timestamp)
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if got.Before(before) {
		t.Fatalf("timestamp %v is stale", got)
	}
}
