package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"equity_trader/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafka_Publish(t *testing.T) {
	w := &fakeWriter{}
	k := newKafka(w, models.SignalsTopic, zap.NewNop())

	err := k.Publish(context.Background(), models.SignalChangeEvent{
		Symbol:    "aapl",
		Signal:    models.SignalBuy,
		EmittedAt: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"signal":"buy","at":"2024-03-05T14:30:00Z"}`, string(w.msgs[0].Value))

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestKafka_PublishErrors(t *testing.T) {
	t.Run("broker error is returned", func(t *testing.T) {
		w := &fakeWriter{err: errors.New("leader not available")}
		k := newKafka(w, models.SignalsTopic, zap.NewNop())

		err := k.Publish(context.Background(), models.SignalChangeEvent{Symbol: "AAPL", Signal: models.SignalSell})
		assert.ErrorContains(t, err, "leader not available")
	})

	t.Run("invalid event never reaches the broker", func(t *testing.T) {
		w := &fakeWriter{}
		k := newKafka(w, models.SignalsTopic, zap.NewNop())

		err := k.Publish(context.Background(), models.SignalChangeEvent{Symbol: "AAPL", Signal: models.Signal(5)})
		assert.ErrorIs(t, err, models.ErrUnknownSignal)
		assert.Empty(t, w.msgs)
	})
}

func TestNewKafka_WriterSettings(t *testing.T) {
	k := NewKafka(Config{Brokers: []string{"k1:9092"}}, zap.NewNop())

	w, ok := k.w.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, models.SignalsTopic, w.Topic)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
