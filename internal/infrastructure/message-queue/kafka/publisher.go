package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alimikegami/e-commerce/catalog-service/internal/dto"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const maxRetries = 3

// MessageWriter is satisfied by *kafka.Conn.
type MessageWriter interface {
	WriteMessages(msgs ...kafka.Message) (int, error)
}

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Publisher struct {
	writer     MessageWriter
	retryDelay time.Duration
}

func CreatePublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer, retryDelay: time.Second}
}

// Publish wraps data in a dto.KafkaMessage and writes it, retrying with a linear backoff.
func (p *Publisher) Publish(ctx context.Context, eventType string, key string, data interface{}) (err error) {
	jsonMsg, err := json.Marshal(dto.KafkaMessage{
		EventType: eventType,
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal Kafka message: %w", err)
	}

	msg := kafka.Message{Value: jsonMsg}
	if key != "" {
		msg.Key = []byte(key)
	}

	for i := 0; i < maxRetries; i++ {
		_, err = p.writer.WriteMessages(msg)
		if err == nil {
			return nil
		}

		log.Ctx(ctx).Error().Err(err).Str("component", "Publish").Str("event_type", eventType).Int("attempt", i+1).Msg("")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryDelay * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to write Kafka message after %d attempts: %w", maxRetries, err)
}
