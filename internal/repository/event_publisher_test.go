package repository

import (
	"context"
	"errors"
	"testing"

	"StockLens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWriter struct{ mock.Mock }

func (m *mockWriter) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	return m.Called(ctx, topic, key, value).Error(0)
}

func (m *mockWriter) Close() error { return m.Called().Error(0) }

func TestKafkaEventPublisherKeysBySymbol(t *testing.T) {
	w := &mockWriter{}
	ev := &models.AnalysisEvent{EventType: models.EventAnalysisCompleted, Symbol: "AAPL", Kind: "price"}
	w.On("Publish", mock.Anything, "stocklens.analysis", []byte("AAPL"), ev).Return(nil).Once()
	w.On("Close").Return(nil).Once()

	p := NewKafkaEventPublisher(w, "stocklens.analysis")
	require.NoError(t, p.PublishAnalysis(context.Background(), ev))
	require.NoError(t, p.Close())
	w.AssertExpectations(t)
}

func TestKafkaEventPublisherWrapsError(t *testing.T) {
	w := &mockWriter{}
	boom := errors.New("broker down")
	w.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)

	err := NewKafkaEventPublisher(w, "t").PublishAnalysis(context.Background(), &models.AnalysisEvent{Symbol: "X"})
	assert.ErrorIs(t, err, boom)
}

func TestNopEventPublisher(t *testing.T) {
	p := NewNopEventPublisher()
	assert.NoError(t, p.PublishAnalysis(context.Background(), &models.AnalysisEvent{}))
	assert.NoError(t, p.Close())
}
