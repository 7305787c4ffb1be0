package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MessageSender is a testify mock of notify.MessageSender.
type MessageSender struct {
	mock.Mock
}

func (m *MessageSender) SendMessage(ctx context.Context, text string) error {
	ret := m.Called(ctx, text)

	return ret.Error(0)
}

// NewMessageSender registers an expectations check with t.Cleanup.
func NewMessageSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageSender {
	m := &MessageSender{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
