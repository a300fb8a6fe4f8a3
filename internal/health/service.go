package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-fit/internal/shared/server/respond"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Status is the liveness payload.
type Status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Service reports liveness. It has no dependencies so it stays green while the
// LLM provider or OCR engine is still cold.
type Service struct {
	now func() time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Status returns the current health payload.
func (s *Service) Status() Status {
	return Status{Status: "ok", Timestamp: s.now().UTC().Format(timestampLayout)}
}

// RegisterRoutes attaches GET /health to the router group.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, s.Status())
	})
}
