package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"excursions/config"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

var ErrNotConfigured = errors.New("kafka brokers are not configured")

const maxRetryDelay = 30 * time.Second

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Decode unmarshals the JSON value of msg into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// Handler processes one message. Returning an error leaves the offset uncommitted.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Configured() bool
	Close() error
}

type kafkaClientImpl struct {
	config  *config.Config
	dialer  *kafkaGo.Dialer
	writer  *kafkaGo.Writer
	mu      sync.Mutex
	readers []*kafkaGo.Reader
}

func New(config *config.Config) Client {
	var mechanism sasl.Mechanism
	if config.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	client := &kafkaClientImpl{
		config: config,
		dialer: &kafkaGo.Dialer{
			DualStack:     true,
			SASLMechanism: mechanism,
		},
	}

	if len(config.Kafka.Brokers) == 0 {
		log.Warn().Msg("KAFKA_BROKERS is empty, booking events are disabled")

		return client
	}

	client.writer = &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(config.Kafka.Brokers...),
		Transport:              &kafkaGo.Transport{SASL: mechanism},
		Balancer:               &kafkaGo.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return client
}

func (k *kafkaClientImpl) Configured() bool {
	return k.writer != nil
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	k.mu.Lock()
	k.readers = append(k.readers, reader)
	k.mu.Unlock()

	return reader
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	if !k.Configured() {
		return ErrNotConfigured
	}

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msg.Topic = topic
		msgs = append(msgs, msg)
	}

	if err = k.writer.WriteMessages(ctx, msgs...); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Info().Str("topic", topic).Int("count", len(msgs)).Msg("Sent message successfully.")

	return nil
}

// Consume blocks until ctx is done. Messages are handled one at a time and committed
// only after the handler succeeds.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if len(k.config.Kafka.Brokers) == 0 {
		return ErrNotConfigured
	}

	if topic == "" {
		return errors.New("topic name cannot be empty")
	}

	reader := k.reader(consumerGroup, topic)

	failures := 0

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			failures++

			if !waitAfterFetchError(ctx, topic, err, failures) {
				return nil
			}

			continue
		}

		failures = 0

		log.Info().Str("topic", topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Received message from Kafka.")

		if !k.handle(ctx, topic, msg, handler) {
			return nil
		}

		if err = reader.CommitMessages(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to commit Kafka message.")
		}
	}
}

// waitAfterFetchError backs off after a failed fetch. It reports false when the consumer
// should stop: ctx is done or the reader was closed.
func waitAfterFetchError(ctx context.Context, topic string, err error, failures int) bool {
	if ctx.Err() != nil {
		log.Info().Str("topic", topic).Msg("Consumer context done.")

		return false
	}

	if errors.Is(err, io.EOF) {
		log.Info().Str("topic", topic).Msg("Kafka reader closed.")

		return false
	}

	log.Error().Err(err).Str("topic", topic).Int("failures", failures).Msg("Failed to read message from Kafka.")

	select {
	case <-ctx.Done():
		return false
	case <-time.After(retryDelay(failures)):
		return true
	}
}

// handle retries msg until the handler succeeds. Later offsets are never committed past
// a failing message. It reports false when ctx ends first.
func (k *kafkaClientImpl) handle(ctx context.Context, topic string, msg kafkaGo.Message, handler Handler) bool {
	for attempt := 1; ; attempt++ {
		err := handler(ctx, msg)
		if err == nil {
			return true
		}

		log.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Int("attempt", attempt).Msg("Failed to handle Kafka message.")

		select {
		case <-ctx.Done():
			return false
		case <-time.After(retryDelay(attempt)):
		}
	}
}

func retryDelay(attempt int) time.Duration {
	delay := time.Duration(attempt) * time.Second
	if delay > maxRetryDelay {
		return maxRetryDelay
	}

	return delay
}

func (k *kafkaClientImpl) Close() error {
	var errs []error

	if k.writer != nil {
		errs = append(errs, k.writer.Close())
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	for _, reader := range k.readers {
		errs = append(errs, reader.Close())
	}

	return errors.Join(errs...)
}
