package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/IBM/sarama"

	"clipforge/pipeline"
)

// Publisher hands clip requests to the Kafka topic for out-of-band
// processing. Success means "accepted by the broker", not "processed".
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher creates a synchronous producer for the given topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create Kafka producer: %w", err)
	}

	return &Publisher{producer: producer, topic: topic}, nil
}

// Publish serializes the request and sends it to the topic, keyed by clip id
// so retries of the same clip land on the same partition. Returns a broker
// message identifier.
func (p *Publisher) Publish(req pipeline.ClipRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal clip request: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(req.ClipID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return "", fmt.Errorf("publish clip request: %w", err)
	}

	messageID := fmt.Sprintf("%d-%d", partition, offset)
	log.Printf("Published clip generation task: clip_id=%s message_id=%s", req.ClipID, messageID)
	return messageID, nil
}

// Close shuts down the underlying producer.
func (p *Publisher) Close() error {
	return p.producer.Close()
}
