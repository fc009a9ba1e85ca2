package ingest_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kbingest/backend/features/asset"
	"kbingest/backend/internal/ingest"
)

type MockFileProcessor struct{ mock.Mock }

func (m *MockFileProcessor) ProcessFile(ctx context.Context, fileURL string) (*ingest.FileResult, error) {
	args := m.Called(ctx, fileURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.FileResult), args.Error(1)
}

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, workspace string, texts []string) ([][]float32, error) {
	args := m.Called(ctx, workspace, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

type MockVectorStore struct{ mock.Mock }

func (m *MockVectorStore) Upsert(ctx context.Context, index string, vectors [][]float32, payloads []map[string]any) ([]string, error) {
	args := m.Called(ctx, index, vectors, payloads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockVectorStore) DeleteVector(ctx context.Context, index, id string) error {
	args := m.Called(ctx, index, id)
	return args.Error(0)
}

type MockAssetStore struct{ mock.Mock }

func (m *MockAssetStore) Get(ctx context.Context, workspace, fileURL string) (*asset.Record, error) {
	args := m.Called(ctx, workspace, fileURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Record), args.Error(1)
}

func (m *MockAssetStore) Upsert(ctx context.Context, rec *asset.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type MockCredentials struct{ mock.Mock }

func (m *MockCredentials) APIKey(ctx context.Context, workspace string) (string, error) {
	args := m.Called(ctx, workspace)
	return args.String(0), args.Error(1)
}

type MockSink struct{ mock.Mock }

func (m *MockSink) Dispatch(ctx context.Context, msg ingest.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(topic string, body []byte) error {
	args := m.Called(topic, body)
	return args.Error(0)
}
