// Package api exposes the clip generation pipeline over HTTP.
package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clipforge/pipeline"
	"clipforge/store"
)

// GeneratorService is the pipeline surface the API depends on.
type GeneratorService interface {
	Generate(ctx context.Context, req pipeline.ClipRequest) (*pipeline.GenerationResult, error)
	GenerateBatch(ctx context.Context, requests []pipeline.ClipRequest) []pipeline.BatchItemOutcome
}

// TaskPublisher enqueues a clip request for deferred processing.
type TaskPublisher interface {
	Publish(req pipeline.ClipRequest) (string, error)
}

// OutcomeReader looks up recorded worker outcomes.
type OutcomeReader interface {
	Get(ctx context.Context, clipID string) (*store.ClipStatus, error)
}

// Server handles HTTP API requests for clip generation. publisher and
// outcomes may be nil when the queue or outcome store is not configured.
type Server struct {
	generator GeneratorService
	publisher TaskPublisher
	outcomes  OutcomeReader
}

// NewServer creates a new API server instance.
func NewServer(generator GeneratorService, publisher TaskPublisher, outcomes OutcomeReader) *Server {
	return &Server{generator: generator, publisher: publisher, outcomes: outcomes}
}

// Router constructs a Gin engine with registered routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.POST("/api/clips", s.handleGenerate)
	r.POST("/api/clips/batch", s.handleGenerateBatch)
	r.POST("/api/clips/enqueue", s.handleEnqueue)
	r.GET("/api/clips/:clip_id", s.handleStatus)
	return r
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type batchRequest struct {
	Clips []pipeline.ClipRequest `json:"clips"`
}

type batchResponse struct {
	Outcomes []pipeline.BatchItemOutcome `json:"outcomes"`
}

type enqueueResponse struct {
	ClipID    string `json:"clip_id"`
	MessageID string `json:"message_id"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// handleGenerate runs the pipeline synchronously for one clip.
// POST /api/clips
func (s *Server) handleGenerate(c *gin.Context) {
	req, ok := bindClipRequest(c)
	if !ok {
		return
	}

	result, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		log.Printf("API: generation failed for clip %s: %v", req.ClipID, err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleGenerateBatch runs the pipeline for each clip in order, isolating
// per-item failures. Always returns one outcome per input clip.
// POST /api/clips/batch
func (s *Server) handleGenerateBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON payload: " + err.Error()})
		return
	}
	if len(req.Clips) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "clips is required"})
		return
	}

	for i := range req.Clips {
		if req.Clips[i].Script == "" {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "every clip needs a script"})
			return
		}
		if req.Clips[i].ClipID == "" {
			req.Clips[i].ClipID = uuid.New().String()
		}
	}

	outcomes := s.generator.GenerateBatch(c.Request.Context(), req.Clips)
	c.JSON(http.StatusOK, batchResponse{Outcomes: outcomes})
}

// handleEnqueue publishes the request to the processing topic and returns
// immediately. 202 means accepted by the broker, not processed.
// POST /api/clips/enqueue
func (s *Server) handleEnqueue(c *gin.Context) {
	if s.publisher == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "task queue is not configured"})
		return
	}

	req, ok := bindClipRequest(c)
	if !ok {
		return
	}

	messageID, err := s.publisher.Publish(req)
	if err != nil {
		log.Printf("API: enqueue failed for clip %s: %v", req.ClipID, err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, enqueueResponse{ClipID: req.ClipID, MessageID: messageID})
}

// handleStatus reports the recorded outcome for an enqueued clip.
// GET /api/clips/:clip_id
func (s *Server) handleStatus(c *gin.Context) {
	if s.outcomes == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Error: "outcome store is not configured"})
		return
	}

	clipID := c.Param("clip_id")
	status, err := s.outcomes.Get(c.Request.Context(), clipID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if status == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "no outcome recorded for clip " + clipID})
		return
	}

	c.JSON(http.StatusOK, status)
}

func bindClipRequest(c *gin.Context) (pipeline.ClipRequest, bool) {
	var req pipeline.ClipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON payload: " + err.Error()})
		return req, false
	}
	if req.Script == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "script is required"})
		return req, false
	}
	if req.ClipID == "" {
		req.ClipID = uuid.New().String()
	}
	return req, true
}
