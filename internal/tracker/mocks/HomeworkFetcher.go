package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// HomeworkFetcher is a testify mock of tracker.HomeworkFetcher.
type HomeworkFetcher struct {
	mock.Mock
}

func (m *HomeworkFetcher) Fetch(ctx context.Context, cursor int64) (any, error) {
	ret := m.Called(ctx, cursor)

	return ret.Get(0), ret.Error(1)
}

func NewHomeworkFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *HomeworkFetcher {
	m := &HomeworkFetcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
