package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/atlas-directory/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishCatalogReloaded(t *testing.T) {
	writer := &recordingWriter{}
	producer := NewProducerWithWriter(writer, "catalog-events", zap.NewNop())

	info := model.DatasetInfo{
		Version:       3,
		LoadedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Source:        "file://data/resources.json",
		ResourceCount: 42,
		CategoryCount: 5,
	}
	require.NoError(t, producer.PublishCatalogReloaded(context.Background(), info))
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, "3", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, EventCatalogReloaded, string(msg.Headers[0].Value))

	var event Event
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventCatalogReloaded, event.Type)
	assert.Equal(t, 42, event.Dataset.ResourceCount)
	assert.Equal(t, 3, event.Dataset.Version)
	assert.True(t, event.Dataset.LoadedAt.Equal(info.LoadedAt))
}

func TestPublishCatalogReloadedWriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker unavailable")}
	producer := NewProducerWithWriter(writer, "catalog-events", zap.NewNop())

	err := producer.PublishCatalogReloaded(context.Background(), model.DatasetInfo{Version: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestProducerClose(t *testing.T) {
	writer := &recordingWriter{}
	producer := NewProducerWithWriter(writer, "catalog-events", zap.NewNop())

	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishCatalogReloaded(context.Background(), model.DatasetInfo{}))
	assert.NoError(t, p.Close())
}
