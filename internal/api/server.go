// Package api exposes the screening service over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
	"github.com/echohealth-screening-server/pkg/classifier"
)

// HistoryReader is the durable history surface consumed by the handlers.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]domain.ActivityRecord, error)
	SetLiked(ctx context.Context, id int64, liked bool) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// RecentReader is the cache-tier surface consumed by the handlers.
type RecentReader interface {
	List(ctx context.Context, limit int) ([]domain.RecentActivity, error)
	Clear(ctx context.Context) error
}

// Submitter runs assessments and records activity entries.
type Submitter interface {
	Submit(ctx context.Context, profile *domain.SymptomProfile, token string) (*domain.Assessment, error)
	RecordUpload(ctx context.Context, resp *classifier.Response) (*domain.Assessment, error)
	RecordEvent(ctx context.Context, title, description string) error
}

// Server represents the HTTP server
type Server struct {
	config  *domain.Config
	orch    Submitter
	history HistoryReader
	recent  RecentReader
	log     *logrus.Logger
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *domain.Config, orch Submitter, history HistoryReader, recent RecentReader, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	server := &Server{
		config:  cfg,
		orch:    orch,
		history: history,
		recent:  recent,
		log:     logger,
		router:  router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/assess", s.handleAssess)
		v1.POST("/uploads/result", s.handleUploadResult)
		v1.POST("/events", s.handleEvent)
		v1.GET("/activities", s.handleListActivities)
		v1.POST("/activities/:id/like", s.handleLikeActivity)
		v1.DELETE("/activities", s.handleClearActivities)
		v1.GET("/recent", s.handleListRecent)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	count, err := s.history.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "history store unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now(),
		"activities": count,
		"version":    "1.0.0",
	})
}

// handleAssess runs one risk assessment for the submitted symptom profile.
func (s *Server) handleAssess(c *gin.Context) {
	var profile domain.SymptomProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token := bearerToken(c)
	assessment, err := s.orch.Submit(c.Request.Context(), &profile, token)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		case errors.Is(err, domain.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "an assessment is already in progress"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "remote classifier rejected credentials"})
		case errors.Is(err, domain.ErrStorageFault):
			// The assessment succeeded but could not be recorded.
			c.JSON(http.StatusOK, assessmentResponse(assessment, false))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			c.Status(http.StatusRequestTimeout)
		default:
			s.log.WithError(err).Error("Assessment failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "assessment failed"})
		}
		return
	}

	c.JSON(http.StatusOK, assessmentResponse(assessment, true))
}

// handleUploadResult records an already-analyzed report upload.
func (s *Server) handleUploadResult(c *gin.Context) {
	var resp classifier.Response
	if err := c.ShouldBindJSON(&resp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	assessment, err := s.orch.RecordUpload(c.Request.Context(), &resp)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedResponse):
			c.JSON(http.StatusBadRequest, gin.H{"error": "result carries no recognizable risk fields"})
		case errors.Is(err, domain.ErrStorageFault):
			c.JSON(http.StatusOK, assessmentResponse(assessment, false))
		default:
			s.log.WithError(err).Error("Upload result recording failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record upload result"})
		}
		return
	}

	c.JSON(http.StatusOK, assessmentResponse(assessment, true))
}

type eventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// handleEvent records a miscellaneous activity entry.
func (s *Server) handleEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := s.orch.RecordEvent(c.Request.Context(), req.Title, req.Description); err != nil {
		s.log.WithError(err).Error("Event recording failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record event"})
		return
	}

	c.Status(http.StatusCreated)
}

// handleListActivities returns the durable history, newest first.
func (s *Server) handleListActivities(c *gin.Context) {
	limit := queryInt(c, "limit", 100)

	records, err := s.history.List(c.Request.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("History listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": records, "count": len(records)})
}

type likeRequest struct {
	Liked bool `json:"liked"`
}

// handleLikeActivity toggles the liked flag of one history entry.
func (s *Server) handleLikeActivity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.history.SetLiked(c.Request.Context(), id, req.Liked); err != nil {
		s.log.WithError(err).Error("Like update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update activity"})
		return
	}

	c.Status(http.StatusNoContent)
}

// handleClearActivities wipes both history tiers.
func (s *Server) handleClearActivities(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.history.Clear(ctx); err != nil {
		s.log.WithError(err).Error("History clear failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}

	if err := s.recent.Clear(ctx); err != nil {
		s.log.WithError(err).Warn("Recent-activity clear failed after history clear")
	}

	c.Status(http.StatusNoContent)
}

// handleListRecent returns the recency cache contents, newest first.
func (s *Server) handleListRecent(c *gin.Context) {
	limit := queryInt(c, "limit", 0)

	entries, err := s.recent.List(c.Request.Context(), limit)
	if err != nil {
		s.log.WithError(err).Error("Recent-activity listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recent activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recent": entries, "count": len(entries)})
}

// assessmentResponse shapes the canonical assessment for the wire.
func assessmentResponse(a *domain.Assessment, recorded bool) gin.H {
	resp := gin.H{
		"risk_score":      a.Score,
		"risk_level":      a.Tier,
		"risk_label":      a.Tier.DisplayLabel(),
		"source":          a.Source,
		"recommendations": a.Recommendations,
		"warning_signs":   a.WarningSigns,
		"next_steps":      a.NextSteps,
		"created_at":      a.CreatedAt,
		"recorded":        recorded,
	}
	if a.Probability != nil {
		resp["probability"] = *a.Probability
	}
	return resp
}

// bearerToken extracts the token from an Authorization header, if present.
func bearerToken(c *gin.Context) string {
	const prefix = "Bearer "
	header := c.GetHeader("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}
