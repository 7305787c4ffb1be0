package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSender публикует уведомления в топик, откуда их доставляет внешний ретранслятор.
type KafkaSender struct {
	writer messageWriter
	chatID string
	topic  string
	logger *slog.Logger
}

type NotificationMessage struct {
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewKafkaSender(brokers []string, topic, chatID string, logger *slog.Logger) *KafkaSender {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}

	return newKafkaSender(writer, topic, chatID, logger)
}

func newKafkaSender(writer messageWriter, topic, chatID string, logger *slog.Logger) *KafkaSender {
	return &KafkaSender{
		writer: writer,
		chatID: chatID,
		topic:  topic,
		logger: logger,
	}
}

func (s *KafkaSender) SendMessage(ctx context.Context, text string) error {
	now := time.Now()

	value, err := json.Marshal(NotificationMessage{
		ChatID:    s.chatID,
		Text:      text,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации уведомления: %w", err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.chatID),
		Value: value,
		Time:  now,
	})
	if err != nil {
		return fmt.Errorf("ошибка записи уведомления в Kafka: %w", err)
	}

	s.logger.Debug("Уведомление опубликовано в Kafka", "topic", s.topic)

	return nil
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
