// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"chat-tester/internal/runner"

	"github.com/stretchr/testify/mock"
)

// MockRequester is a mock implementation of suite.Requester
type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Run(ctx context.Context, req runner.Request) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

// Requests returns the requests received so far, in call order.
func (m *MockRequester) Requests() []runner.Request {
	var reqs []runner.Request
	for _, call := range m.Calls {
		if call.Method == "Run" {
			reqs = append(reqs, call.Arguments.Get(1).(runner.Request))
		}
	}
	return reqs
}

// MockStore is a mock implementation of suite.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) DeleteMessagesByText(text string) (int64, error) {
	args := m.Called(text)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockStore) DeleteGroupsByName(name string) (int64, error) {
	args := m.Called(name)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockStore) DeleteMembershipsByGroup(groupID int64) (int64, error) {
	args := m.Called(groupID)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockStore) DeleteMembershipsByGroupName(name string) (int64, error) {
	args := m.Called(name)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockStore) GroupIDByName(name string) (int64, error) {
	args := m.Called(name)
	return args.Get(0).(int64), args.Error(1)
}
