package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	kafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const WriteTimeout = 5 * time.Second

// KafkaProducer is the subset of *kafka.Writer the publisher uses.
type KafkaProducer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	BootstrapServer string `envconfig:"KAFKA_BOOTSTRAP_SERVER" required:"true"`
	ClientID        string `envconfig:"KAFKA_CLIENT_ID" default:""`
	ClientSecret    string `envconfig:"KAFKA_CLIENT_SECRET" default:""`
	TopicPrefix     string `envconfig:"EVENTS_TOPIC_PREFIX" default:""`
}

// KafkaPublisher writes one message per event to the event's own topic.
type KafkaPublisher struct {
	producer KafkaProducer
	prefix   string
	metadata any
	now      func() time.Time
}

// LoadKafkaConfig reads KafkaConfig from the environment.
func LoadKafkaConfig() (KafkaConfig, error) {
	var cfg KafkaConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return KafkaConfig{}, fmt.Errorf("events: kafka config: %w", err)
	}
	return cfg, nil
}

func newProducer(cfg KafkaConfig) *kafka.Writer {
	// Topic is left empty so each message picks its own.
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BootstrapServer),
		Balancer:     &kafka.ReferenceHash{},
		Compression:  compress.Gzip,
		Async:        true,
		WriteTimeout: WriteTimeout,
	}
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		writer.Transport = &kafka.Transport{
			SASL: &plain.Mechanism{
				Username: cfg.ClientID,
				Password: cfg.ClientSecret,
			},
			// let config pick default root CA, but define it to force TLS
			TLS: &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return writer
}

// NewKafkaPublisher builds an async publisher. metadata is attached to
// every envelope (service name, version).
func NewKafkaPublisher(cfg KafkaConfig, metadata any) *KafkaPublisher {
	return NewKafkaPublisherWithProducer(newProducer(cfg), cfg.TopicPrefix, metadata)
}

// NewKafkaPublisherWithProducer is used by tests to inject a fake producer.
func NewKafkaPublisherWithProducer(p KafkaProducer, prefix string, metadata any) *KafkaPublisher {
	return &KafkaPublisher{producer: p, prefix: prefix, metadata: metadata, now: time.Now}
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic Topic, key string, payload any) error {
	value, err := json.Marshal(Envelope{
		Name:       string(topic),
		Payload:    payload,
		Metadata:   k.metadata,
		OccurredAt: k.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", topic, err)
	}

	// If Async is true, this will always return nil
	return k.producer.WriteMessages(ctx, kafka.Message{
		Topic: k.prefix + string(topic),
		Key:   []byte(key),
		Value: value,
	})
}

func (k *KafkaPublisher) Close() error { return k.producer.Close() }
