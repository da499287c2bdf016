package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recipeinbox/internal/model"
	"recipeinbox/internal/service"
)

type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, body map[string]any) (*service.SubmitResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockIntakeService) List(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error) {
	args := m.Called(ctx, status, includePayload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Submission), args.Error(1)
}

func (m *MockIntakeService) MarkImported(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockIntakeService) Purge(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockIntakeService) Wipe(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIntakeService) ExportArchive(ctx context.Context, status model.Status) (*service.ArchiveResult, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ArchiveResult), args.Error(1)
}
