package mocks

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

// TelegramAPI is a testify mock of telegram.TelegramAPI.
type TelegramAPI struct {
	mock.Mock
}

func (m *TelegramAPI) Reply(ctx context.Context, chatID int64, text string) error {
	ret := m.Called(ctx, chatID, text)

	return ret.Error(0)
}

func (m *TelegramAPI) GetBot() *tgbotapi.BotAPI {
	ret := m.Called()

	if bot, ok := ret.Get(0).(*tgbotapi.BotAPI); ok {
		return bot
	}

	return nil
}

// NewTelegramAPI registers an expectations check with t.Cleanup.
func NewTelegramAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *TelegramAPI {
	m := &TelegramAPI{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
