package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"clipforge/common"
	"clipforge/config"
	"clipforge/pipeline"
	"clipforge/queue"
	"clipforge/store"
	"clipforge/talks"
	"clipforge/tts"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	ctx := context.Background()

	storage, err := common.NewS3(ctx, common.S3Config{
		Bucket:       os.Getenv("CLIP_BUCKET"),
		Region:       os.Getenv("S3_REGION"),
		Profile:      os.Getenv("S3_PROFILE"),
		Endpoint:     os.Getenv("S3_ENDPOINT"),
		UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
	})
	if err != nil {
		log.Fatalf("Failed to init storage client: %v", err)
	}

	synth := tts.NewClient(
		config.GetEnvOrDefault("TTS_API_URL", "http://localhost:9000"),
		os.Getenv("TTS_API_KEY"),
	)
	talkClient := talks.NewClient(
		config.GetEnvOrDefault("TALKS_API_URL", "https://api.d-id.com"),
		os.Getenv("TALKS_API_KEY"),
	)

	generator := pipeline.NewGenerator(storage, synth, talkClient)

	var outcomes *store.OutcomeStore
	if addr := config.RedisAddr(); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		outcomes = store.NewOutcomeStore(addr, os.Getenv("REDIS_PASSWORD"), db)
		defer outcomes.Close()
		if err := outcomes.Ping(ctx); err != nil {
			log.Fatalf("Failed to reach outcome store: %v", err)
		}
	} else {
		log.Println("Redis not configured; outcomes will only be logged")
	}

	cfg := queue.WorkerConfig{
		Brokers:        config.KafkaBrokers(),
		Topic:          config.KafkaTopic(),
		GroupID:        config.KafkaGroupID(),
		Generator:      generator,
		Outcomes:       outcomes,
		Cleaner:        storage,
		CleanupOrphans: os.Getenv("CLEANUP_ORPHANED_AUDIO") == "true",
	}

	log.Printf("Starting clip worker (topic: %s, group: %s)", cfg.Topic, cfg.GroupID)
	if err := queue.RunWithGracefulShutdown(cfg); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
