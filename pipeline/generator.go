// Package pipeline turns a text script into a finished clip: synthesize
// narration, render a talking-head video through the remote provider, and
// re-home every artifact in object storage.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"clipforge/config"
	"clipforge/talks"
)

// Generator runs the clip generation pipeline. The polling knobs and
// fallback values default to the config constants and may be overridden
// per instance.
type Generator struct {
	storage Storage
	tts     Synthesizer
	talks   TalkClient
	thumbs  Thumbnailer

	// PollInterval is the wait between talk status polls.
	PollInterval time.Duration
	// MaxPollAttempts caps the polling loop.
	MaxPollAttempts int
	// DefaultPresenterImage is used when a request carries none.
	DefaultPresenterImage string
	// PlaceholderThumbnailURL is substituted when thumbnail extraction fails.
	PlaceholderThumbnailURL string
	// DefaultDuration is substituted when the audio header is unreadable.
	DefaultDuration int
}

// NewGenerator wires a Generator with default knobs and the ffmpeg thumbnailer.
func NewGenerator(storage Storage, synth Synthesizer, talkClient TalkClient) *Generator {
	return &Generator{
		storage:                 storage,
		tts:                     synth,
		talks:                   talkClient,
		thumbs:                  FFmpegThumbnailer{},
		PollInterval:            config.PollInterval,
		MaxPollAttempts:         config.MaxPollAttempts,
		DefaultPresenterImage:   config.DefaultPresenterImageURL,
		PlaceholderThumbnailURL: config.PlaceholderThumbnailURL,
		DefaultDuration:         config.DefaultDurationSeconds,
	}
}

// Generate runs the full pipeline for one clip. Synthesis, uploads, talk
// creation, polling and the result download are hard steps: any failure
// aborts with a GenerationError. Thumbnail extraction and duration probing
// degrade to fixed fallbacks instead.
func (g *Generator) Generate(ctx context.Context, req ClipRequest) (*GenerationResult, error) {
	log.Printf("Starting clip generation: clip_id=%s", req.ClipID)

	audio, err := g.tts.Synthesize(ctx, req.Script, req.VoiceName)
	if err != nil {
		return nil, stepErr(req.ClipID, "synthesize speech", err)
	}
	log.Printf("Clip %s: synthesized %d bytes of audio", req.ClipID, len(audio))

	audioKey := fmt.Sprintf(config.AudioKeyTemplate, req.ClipID)
	audioURL, err := g.storage.Put(ctx, audioKey, audio, "audio/wav", artifactMetadata(req.ClipID, ""))
	if err != nil {
		return nil, stepErr(req.ClipID, "upload audio", err)
	}
	log.Printf("Clip %s: audio uploaded to %s", req.ClipID, audioURL)

	presenter := req.PresenterImage
	if presenter == "" {
		presenter = g.DefaultPresenterImage
	}

	talk, err := g.talks.CreateTalk(ctx, talks.CreateTalkRequest{
		Script:    talks.TalkScript{Type: "audio", AudioURL: audioURL},
		SourceURL: presenter,
		Config:    talks.TalkConfig{Fluent: true, PadAudio: 0, Stitch: true},
	})
	if err != nil {
		return nil, stepErr(req.ClipID, "create talk", err)
	}
	log.Printf("Clip %s: talk created with id %s", req.ClipID, talk.ID)

	resultURL, err := g.waitForTalk(ctx, talk.ID)
	if err != nil {
		return nil, stepErr(req.ClipID, "poll talk", err)
	}

	video, err := g.talks.DownloadResult(ctx, resultURL)
	if err != nil {
		return nil, stepErr(req.ClipID, "download video", err)
	}
	log.Printf("Clip %s: video downloaded, size: %d bytes", req.ClipID, len(video))

	videoKey := fmt.Sprintf(config.VideoKeyTemplate, req.ClipID)
	videoURL, err := g.storage.Put(ctx, videoKey, video, "video/mp4", artifactMetadata(req.ClipID, "talks"))
	if err != nil {
		return nil, stepErr(req.ClipID, "upload video", err)
	}
	log.Printf("Clip %s: video uploaded to %s", req.ClipID, videoURL)

	thumbnailURL := g.thumbnailURL(ctx, req.ClipID, video)
	duration := g.durationSeconds(req.ClipID, audio)

	log.Printf("Clip %s: generation completed", req.ClipID)
	return &GenerationResult{
		ClipID:       req.ClipID,
		AudioURL:     audioURL,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		Status:       StatusCompleted,
	}, nil
}

// waitForTalk polls the talk until it reports done or error, or the attempt
// ceiling is reached. Poll HTTP failures are retried within the same ceiling;
// unknown statuses count as still processing.
func (g *Generator) waitForTalk(ctx context.Context, talkID string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= g.MaxPollAttempts; attempt++ {
		talk, err := g.talks.GetTalk(ctx, talkID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.Printf("Talk %s: poll attempt %d/%d failed: %v", talkID, attempt, g.MaxPollAttempts, err)
			lastErr = err
			if attempt == g.MaxPollAttempts {
				return "", fmt.Errorf("polling failed: %w", err)
			}
		} else {
			switch talk.Status {
			case talks.StatusDone:
				return talk.ResultURL, nil
			case talks.StatusError:
				return "", fmt.Errorf("talk %s failed: %s", talkID, talk.ErrorDetail())
			case talks.StatusCreated, talks.StatusStarted:
				log.Printf("Talk %s: status %s (attempt %d/%d)", talkID, talk.Status, attempt, g.MaxPollAttempts)
			default:
				log.Printf("Talk %s: unexpected status %q, still waiting (attempt %d/%d)", talkID, talk.Status, attempt, g.MaxPollAttempts)
			}
		}

		if err := sleepCtx(ctx, g.PollInterval); err != nil {
			return "", err
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w after %d attempts (last error: %v)", ErrPollTimeout, g.MaxPollAttempts, lastErr)
	}
	return "", fmt.Errorf("%w after %d attempts", ErrPollTimeout, g.MaxPollAttempts)
}

// thumbnailURL extracts, uploads and returns the thumbnail URL. This is the
// only swallowed failure path in the pipeline: on any error the fixed
// placeholder URL is returned instead.
func (g *Generator) thumbnailURL(ctx context.Context, clipID string, video []byte) string {
	thumb, err := g.thumbs.ExtractThumbnail(video)
	if err != nil {
		log.Printf("Warning: clip %s: could not generate thumbnail: %v, using placeholder", clipID, err)
		return g.PlaceholderThumbnailURL
	}

	key := fmt.Sprintf(config.ThumbnailKeyTemplate, clipID)
	url, err := g.storage.Put(ctx, key, thumb, "image/jpeg", artifactMetadata(clipID, ""))
	if err != nil {
		log.Printf("Warning: clip %s: could not upload thumbnail: %v, using placeholder", clipID, err)
		return g.PlaceholderThumbnailURL
	}
	return url
}

// durationSeconds reads the clip duration from the synthesized WAV header,
// falling back to the fixed default when the header is unreadable.
func (g *Generator) durationSeconds(clipID string, audio []byte) int {
	duration, err := wavDuration(audio)
	if err != nil {
		log.Printf("Warning: clip %s: could not calculate duration: %v, returning default", clipID, err)
		return g.DefaultDuration
	}
	return duration
}

func artifactMetadata(clipID, source string) map[string]string {
	m := map[string]string{
		"clip_id":    clipID,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}
	if source != "" {
		m["source"] = source
	}
	return m
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
