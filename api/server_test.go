package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"clipforge/pipeline"
	"clipforge/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	err    error
	failOn string
}

func (f *fakeGenerator) Generate(ctx context.Context, req pipeline.ClipRequest) (*pipeline.GenerationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.failOn != "" && req.Script == f.failOn {
		return nil, fmt.Errorf("clip %s: synthesize speech: gateway down", req.ClipID)
	}
	return &pipeline.GenerationResult{
		ClipID:       req.ClipID,
		AudioURL:     "https://storage.test/clips/" + req.ClipID + "/audio.wav",
		VideoURL:     "https://storage.test/clips/" + req.ClipID + "/video.mp4",
		ThumbnailURL: "https://storage.test/clips/" + req.ClipID + "/thumbnail.jpg",
		Duration:     12,
		Status:       pipeline.StatusCompleted,
	}, nil
}

func (f *fakeGenerator) GenerateBatch(ctx context.Context, requests []pipeline.ClipRequest) []pipeline.BatchItemOutcome {
	outcomes := make([]pipeline.BatchItemOutcome, 0, len(requests))
	for _, req := range requests {
		result, err := f.Generate(ctx, req)
		if err != nil {
			outcomes = append(outcomes, pipeline.BatchItemOutcome{ClipID: req.ClipID, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, pipeline.BatchItemOutcome{Success: true, ClipID: req.ClipID, Result: result})
	}
	return outcomes
}

type fakePublisher struct {
	err  error
	last pipeline.ClipRequest
}

func (f *fakePublisher) Publish(req pipeline.ClipRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.last = req
	return "0-42", nil
}

type fakeOutcomes struct {
	statuses map[string]*store.ClipStatus
	err      error
}

func (f *fakeOutcomes) Get(ctx context.Context, clipID string) (*store.ClipStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses[clipID], nil
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips", gin.H{"script": "hello", "clip_id": "c1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result pipeline.GenerationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.ClipID != "c1" || result.Status != pipeline.StatusCompleted {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestGenerateEndpointAssignsClipID(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips", gin.H{"script": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var result pipeline.GenerationResult
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.ClipID == "" {
		t.Error("expected a generated clip_id when none supplied")
	}
}

func TestGenerateEndpointRejectsMissingScript(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips", gin.H{"clip_id": "c1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerateEndpointReportsPipelineFailure(t *testing.T) {
	router := NewServer(&fakeGenerator{err: fmt.Errorf("provider down")}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips", gin.H{"script": "hello"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestBatchEndpoint(t *testing.T) {
	router := NewServer(&fakeGenerator{failOn: "boom"}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips/batch", gin.H{
		"clips": []gin.H{
			{"script": "first", "clip_id": "c1"},
			{"script": "boom", "clip_id": "c2"},
			{"script": "third", "clip_id": "c3"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp batchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(resp.Outcomes))
	}
	if !resp.Outcomes[0].Success || resp.Outcomes[1].Success || !resp.Outcomes[2].Success {
		t.Errorf("unexpected success flags: %+v", resp.Outcomes)
	}
}

func TestBatchEndpointRejectsEmptyList(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips/batch", gin.H{"clips": []gin.H{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEnqueueEndpoint(t *testing.T) {
	publisher := &fakePublisher{}
	router := NewServer(&fakeGenerator{}, publisher, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips/enqueue", gin.H{"script": "hello", "clip_id": "c1"})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp enqueueResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ClipID != "c1" || resp.MessageID != "0-42" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if publisher.last.Script != "hello" {
		t.Errorf("publisher received wrong request: %+v", publisher.last)
	}
}

func TestEnqueueEndpointWithoutQueue(t *testing.T) {
	router := NewServer(&fakeGenerator{}, nil, nil).Router()

	w := doJSON(t, router, http.MethodPost, "/api/clips/enqueue", gin.H{"script": "hello"})
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	outcomes := &fakeOutcomes{statuses: map[string]*store.ClipStatus{
		"c1": {State: store.StateDone, Outcome: &pipeline.BatchItemOutcome{Success: true, ClipID: "c1"}},
	}}
	router := NewServer(&fakeGenerator{}, nil, outcomes).Router()

	w := doJSON(t, router, http.MethodGet, "/api/clips/c1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var status store.ClipStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.State != store.StateDone || status.Outcome == nil || !status.Outcome.Success {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestStatusEndpointUnknownClip(t *testing.T) {
	outcomes := &fakeOutcomes{statuses: map[string]*store.ClipStatus{}}
	router := NewServer(&fakeGenerator{}, nil, outcomes).Router()

	w := doJSON(t, router, http.MethodGet, "/api/clips/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestStatusEndpointStoreError(t *testing.T) {
	outcomes := &fakeOutcomes{err: fmt.Errorf("redis unavailable")}
	router := NewServer(&fakeGenerator{}, nil, outcomes).Router()

	w := doJSON(t, router, http.MethodGet, "/api/clips/c1", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
