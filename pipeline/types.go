package pipeline

import (
	"context"

	"clipforge/talks"
)

// Generation result statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ClipRequest is one unit of video-generation work. VoiceName and
// PresenterImage are optional overrides.
type ClipRequest struct {
	Script         string `json:"script"`
	ClipID         string `json:"clip_id"`
	VoiceName      string `json:"voice_name,omitempty"`
	PresenterImage string `json:"presenter_image,omitempty"`
}

// GenerationResult is the record assembled after a successful pipeline run.
type GenerationResult struct {
	ClipID       string `json:"clip_id"`
	AudioURL     string `json:"audio_url"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration"`
	Status       string `json:"status"`
}

// BatchItemOutcome reports one batch item's fate. Exactly one is produced
// per input request, in input order.
type BatchItemOutcome struct {
	Success bool              `json:"success"`
	ClipID  string            `json:"clip_id"`
	Result  *GenerationResult `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Storage uploads publicly readable artifacts and returns their public URL.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error)
}

// Synthesizer converts a text script into WAV audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceName string) ([]byte, error)
}

// TalkClient is the talking-head provider surface the pipeline depends on.
type TalkClient interface {
	CreateTalk(ctx context.Context, req talks.CreateTalkRequest) (*talks.Talk, error)
	GetTalk(ctx context.Context, id string) (*talks.Talk, error)
	DownloadResult(ctx context.Context, url string) ([]byte, error)
}

// Thumbnailer extracts a single scaled frame from a video buffer.
type Thumbnailer interface {
	ExtractThumbnail(video []byte) ([]byte, error)
}
