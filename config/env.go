package config

import (
	"os"
	"strings"
)

// GetEnvOrDefault returns the environment variable value or a fallback default
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// KafkaBrokers parses the Kafka broker list from environment variable
func KafkaBrokers() []string {
	brokers := GetEnvOrDefault("KAFKA_BOOTSTRAP_SERVERS", "localhost:9093")
	return strings.Split(brokers, ",")
}

// KafkaTopic returns the clip request topic name
func KafkaTopic() string {
	return GetEnvOrDefault("KAFKA_TOPIC_CLIP_REQUESTS", "clip-generation-requests")
}

// KafkaGroupID returns the worker consumer group ID
func KafkaGroupID() string {
	return GetEnvOrDefault("KAFKA_CONSUMER_GROUP_ID", "clipforge-worker-group")
}

// RedisAddr returns the outcome store address, empty if not configured
func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}
