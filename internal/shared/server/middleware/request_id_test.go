package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{name: "generated when absent", inbound: "", reuse: false},
		{name: "reused when sane", inbound: "abc-123", reuse: true},
		{name: "replaced when path-like", inbound: "../../etc", reuse: false},
		{name: "replaced when too long", inbound: strings.Repeat("x", maxRequestIDLen+1), reuse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(RequestID())
			r.GET("/", func(c *gin.Context) {
				seen = RequestIDFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.inbound != "" {
				req.Header.Set("X-Request-Id", tt.inbound)
			}
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if got := resp.Header().Get("X-Request-Id"); got != seen {
				t.Fatalf("header %q does not match context %q", got, seen)
			}
			if tt.reuse {
				if seen != tt.inbound {
					t.Fatalf("expected inbound id reused, got %q", seen)
				}
				return
			}
			if _, err := uuid.Parse(seen); err != nil {
				t.Fatalf("expected generated uuid, got %q", seen)
			}
		})
	}
}

func TestRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Unexpected server error") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
