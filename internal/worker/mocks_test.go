package worker_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kbingest/backend/internal/ingest"
)

// Mocks

type MockBatchProcessor struct{ mock.Mock }

func (m *MockBatchProcessor) ProcessBatch(ctx context.Context, msg ingest.Message) (ingest.BatchResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(ingest.BatchResult), args.Error(1)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) ScheduleNext(ctx context.Context, msg ingest.Message, res ingest.BatchResult) error {
	args := m.Called(ctx, msg, res)
	return args.Error(0)
}

type MockFailureMarker struct{ mock.Mock }

func (m *MockFailureMarker) MarkFailed(ctx context.Context, workspace, fileURL string) error {
	args := m.Called(ctx, workspace, fileURL)
	return args.Error(0)
}
