package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flightcheck/internal/core/domain"
)

// runner is what the HTTP surface needs from the orchestrator.
type runner interface {
	Run(ctx context.Context) *domain.RunReport
}

// Server exposes the validation run over HTTP.
type Server struct {
	runner runner
	logger *zap.Logger

	// One browser session at a time; concurrent requests queue here.
	mu sync.Mutex
}

// NewServer creates the HTTP surface around the given orchestrator.
func NewServer(r runner, logger *zap.Logger) *Server {
	return &Server{runner: r, logger: logger}
}

// Router builds the gin engine with the check and health routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/check", s.check)
	r.GET("/healthz", s.healthz)
	return r
}

// check runs the full validation and returns the report. The request
// body is accepted but ignored; trigger payloads carry nothing the run
// needs. 200 when every step passed, 500 otherwise.
func (s *Server) check(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.runner.Run(c.Request.Context())

	status := http.StatusOK
	if report.Status != domain.StatusSuccess {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
