package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"clipforge/api"
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

	// Publisher is optional: without Kafka the enqueue endpoint returns 501
	var publisher api.TaskPublisher
	if os.Getenv("KAFKA_BOOTSTRAP_SERVERS") != "" {
		p, err := queue.NewPublisher(config.KafkaBrokers(), config.KafkaTopic())
		if err != nil {
			log.Fatalf("Failed to init Kafka publisher: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Printf("Kafka publisher ready (topic: %s)", config.KafkaTopic())
	} else {
		log.Println("Kafka not configured; enqueue endpoint disabled")
	}

	// Outcome store is optional: without Redis the status endpoint returns 501
	var outcomes api.OutcomeReader
	if addr := config.RedisAddr(); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		s := store.NewOutcomeStore(addr, os.Getenv("REDIS_PASSWORD"), db)
		defer s.Close()
		if err := s.Ping(ctx); err != nil {
			log.Fatalf("Failed to reach outcome store: %v", err)
		}
		outcomes = s
	} else {
		log.Println("Redis not configured; status endpoint disabled")
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	server := api.NewServer(generator, publisher, outcomes)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/clips")
	log.Println("  POST /api/clips/batch")
	log.Println("  POST /api/clips/enqueue")
	log.Println("  GET  /api/clips/:clip_id")

	if err := server.Router().Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
