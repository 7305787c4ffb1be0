package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/central-university-dev/homework-bot/internal/config"
	"github.com/central-university-dev/homework-bot/internal/notify"
	"github.com/central-university-dev/homework-bot/internal/notify/mocks"
)

func TestSenderFactory_TelegramOnly(t *testing.T) {
	telegram := mocks.NewMessageSender(t)
	factory := notify.NewSenderFactory(&config.Config{FallbackEnabled: false}, newTestLogger())

	sender, closer := factory.CreateSender(telegram)

	assert.Same(t, telegram, sender)
	assert.Nil(t, closer)
}

func TestSenderFactory_KafkaFallback(t *testing.T) {
	telegram := mocks.NewMessageSender(t)
	factory := notify.NewSenderFactory(&config.Config{
		FallbackEnabled:    true,
		KafkaBrokers:       "localhost:9092",
		TopicNotifications: "homework-notifications",
		TelegramChatID:     "1",
	}, newTestLogger())

	sender, closer := factory.CreateSender(telegram)

	assert.IsType(t, &notify.FallbackSender{}, sender)
	assert.IsType(t, &notify.KafkaSender{}, closer)
	assert.NoError(t, closer.Close())
}
