package notify

import (
	"io"
	"log/slog"

	"github.com/central-university-dev/homework-bot/internal/config"
)

type SenderFactory struct {
	config *config.Config
	logger *slog.Logger
}

func NewSenderFactory(config *config.Config, logger *slog.Logger) *SenderFactory {
	return &SenderFactory{
		config: config,
		logger: logger,
	}
}

// CreateSender оборачивает Telegram отправителя резервным Kafka, если он включён.
// Возвращаемый closer равен nil, когда закрывать нечего.
func (f *SenderFactory) CreateSender(telegram MessageSender) (MessageSender, io.Closer) {
	brokers := f.config.KafkaBrokerList()

	if !f.config.FallbackEnabled || len(brokers) == 0 {
		f.logger.Info("Создание отправителя", "transport", "telegram")
		return telegram, nil
	}

	f.logger.Info("Создание отправителя",
		"transport", "telegram",
		"fallback", "kafka",
		"topic", f.config.TopicNotifications,
	)

	kafkaSender := NewKafkaSender(brokers, f.config.TopicNotifications, f.config.TelegramChatID, f.logger)

	return NewFallbackSender(telegram, kafkaSender, f.logger), kafkaSender
}
