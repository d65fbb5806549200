package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clipforge/config"
	"clipforge/pipeline"
	"clipforge/store"
)

// ArtifactCleaner removes orphaned intermediate artifacts after a failed run.
type ArtifactCleaner interface {
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// WorkerConfig holds clip worker configuration. Outcomes and Cleaner are
// optional; without them the worker only logs results.
type WorkerConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Generator *pipeline.Generator
	Outcomes  *store.OutcomeStore
	// Cleaner plus CleanupOrphans enables best-effort deletion of a failed
	// clip's uploaded audio. Off by default: orphaned blobs are accepted.
	Cleaner        ArtifactCleaner
	CleanupOrphans bool
}

// NewClipConsumer creates a Kafka consumer that feeds clip requests into the
// generation pipeline.
func NewClipConsumer(cfg WorkerConfig) (*Consumer, error) {
	handler := &TypedMessageHandler[pipeline.ClipRequest]{
		Validate: func(msg *pipeline.ClipRequest) bool {
			if msg.ClipID == "" {
				log.Printf("Message missing clip_id, skipping")
				return false
			}
			if msg.Script == "" {
				log.Printf("Message for clip %s missing script, skipping", msg.ClipID)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, msg *pipeline.ClipRequest) error {
			return processClip(ctx, cfg, *msg)
		},
		AlwaysMark: true, // Mark validation failures, but not processing failures
	}

	return NewConsumer(ConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Handler: handler,
	})
}

func processClip(ctx context.Context, cfg WorkerConfig, req pipeline.ClipRequest) error {
	log.Printf("Processing clip request: clip_id=%s", req.ClipID)

	if cfg.Outcomes != nil {
		if err := cfg.Outcomes.MarkProcessing(ctx, req.ClipID); err != nil {
			log.Printf("Warning: could not mark clip %s as processing: %v", req.ClipID, err)
		}
	}

	result, err := cfg.Generator.Generate(ctx, req)

	outcome := pipeline.BatchItemOutcome{Success: err == nil, ClipID: req.ClipID, Result: result}
	if err != nil {
		outcome.Error = err.Error()
	}

	if cfg.Outcomes != nil {
		if saveErr := cfg.Outcomes.Save(ctx, outcome); saveErr != nil {
			log.Printf("Warning: could not record outcome for clip %s: %v", req.ClipID, saveErr)
		}
	}

	if err != nil {
		if cfg.CleanupOrphans && cfg.Cleaner != nil {
			cleanupOrphanedAudio(ctx, cfg.Cleaner, req.ClipID)
		}
		log.Printf("Failed to process clip %s: %v", req.ClipID, err)
		return err // Not marked, allowing redelivery
	}

	log.Printf("Successfully processed clip: clip_id=%s", req.ClipID)
	return nil
}

// cleanupOrphanedAudio removes the uploaded audio left behind by a failed
// run. Best effort: cleanup failures are logged, never propagated.
func cleanupOrphanedAudio(ctx context.Context, cleaner ArtifactCleaner, clipID string) {
	key := fmt.Sprintf(config.AudioKeyTemplate, clipID)

	exists, err := cleaner.Exists(ctx, key)
	if err != nil {
		log.Printf("Warning: could not check orphaned audio for clip %s: %v", clipID, err)
		return
	}
	if !exists {
		return
	}
	if err := cleaner.Delete(ctx, key); err != nil {
		log.Printf("Warning: could not delete orphaned audio for clip %s: %v", clipID, err)
		return
	}
	log.Printf("Deleted orphaned audio for failed clip %s", clipID)
}

// RunWithGracefulShutdown starts the clip consumer and blocks until SIGINT
// or SIGTERM, then drains briefly and closes.
func RunWithGracefulShutdown(cfg WorkerConfig) error {
	consumer, err := NewClipConsumer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("Received termination signal")
	case <-ctx.Done():
		log.Println("Context canceled")
	}

	cancel()

	// Give some time for in-flight processing to complete
	time.Sleep(2 * time.Second)

	return consumer.Close()
}
