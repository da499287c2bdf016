package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"recipeinbox/internal/model"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) FindByContentHash(ctx context.Context, hash string) (*model.Submission, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByStatus(ctx context.Context, status model.Status, includePayload bool) ([]model.Submission, error) {
	args := m.Called(ctx, status, includePayload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, slug string, status model.Status) (bool, error) {
	args := m.Called(ctx, slug, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
