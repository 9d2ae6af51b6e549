package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"equity_trader/internal/models"
	health "equity_trader/internal/modules/health/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBroker serves one partition; every subscription resumes from the committed offset.
type fakeBroker struct {
	mu            sync.Mutex
	msgs          []kafka.Message
	committed     int
	subscribeErrs int
	subscribes    int
}

func (b *fakeBroker) add(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, kafka.Message{
		Topic:  models.SignalsTopic,
		Key:    []byte(key),
		Value:  []byte(value),
		Offset: int64(len(b.msgs)),
	})
}

func (b *fakeBroker) Subscribe(context.Context) (MessageReader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribes++
	if b.subscribeErrs > 0 {
		b.subscribeErrs--
		return nil, errors.New("kafka: broker not available")
	}
	return &fakeReader{b: b, pos: b.committed}, nil
}

func (b *fakeBroker) Committed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.committed
}

type fakeReader struct {
	b   *fakeBroker
	pos int
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.b.mu.Lock()
	if r.pos < len(r.b.msgs) {
		m := r.b.msgs[r.pos]
		r.pos++
		r.b.mu.Unlock()
		return m, nil
	}
	r.b.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	for _, m := range msgs {
		if next := int(m.Offset) + 1; next > r.b.committed {
			r.b.committed = next
		}
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type call struct {
	side   string
	symbol string
}

type fakeExecutor struct {
	mu    sync.Mutex
	calls []call
	err   error
	panic bool
}

func (e *fakeExecutor) record(side, symbol string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, call{side, symbol})
	if e.panic {
		panic("nil account")
	}
	return e.err
}

func (e *fakeExecutor) BuyInto(_ context.Context, symbol string) (models.Outcome, error) {
	if err := e.record("buy", symbol); err != nil {
		return "", err
	}
	return models.OutcomeSubmitted, nil
}

func (e *fakeExecutor) SellOff(_ context.Context, symbol string) (models.Outcome, error) {
	if err := e.record("sell", symbol); err != nil {
		return "", err
	}
	return models.OutcomeNothingHeld, nil
}

func (e *fakeExecutor) Calls() []call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]call(nil), e.calls...)
}

var testNow = time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)

func event(signal string, at time.Time) string {
	return fmt.Sprintf(`{"signal":%q,"at":%q}`, signal, at.Format(time.RFC3339))
}

func newTestConsumer(b *fakeBroker, exec *fakeExecutor) (*Consumer, *health.State) {
	state := health.NewState()
	c := NewConsumer(Config{RetryDelay: time.Millisecond, MaxDeliveries: 3}, b, exec, state, zap.NewNop())
	c.now = func() time.Time { return testNow }
	return c, state
}

// runUntilCommitted runs the consumer until the broker has committed n messages.
func runUntilCommitted(t *testing.T, c *Consumer, b *fakeBroker, n int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return b.Committed() >= n }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_Dispatch(t *testing.T) {
	b := &fakeBroker{}
	b.add("AAPL", event("buy", testNow.Add(-time.Minute)))
	b.add("msft", event("sell", testNow.Add(-time.Hour)))
	exec := &fakeExecutor{}
	c, state := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 2)

	assert.Equal(t, []call{{"buy", "AAPL"}, {"sell", "MSFT"}}, exec.Calls())
	assert.Equal(t, health.Counters{Processed: 2}, state.Counters())
	assert.False(t, state.LastMessage().IsZero())
}

func TestConsumer_StaleNeverReachesExecutor(t *testing.T) {
	b := &fakeBroker{}
	b.add("AAPL", event("buy", testNow.Add(-25*time.Hour)))
	b.add("TSLA", event("buy", testNow.Add(-23*time.Hour)))
	exec := &fakeExecutor{}
	c, state := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 2)

	assert.Equal(t, []call{{"buy", "TSLA"}}, exec.Calls())
	assert.Equal(t, int64(1), state.Counters().Skipped)
}

func TestConsumer_LegacyTimestamp(t *testing.T) {
	b := &fakeBroker{}
	legacy := testNow.Add(-2 * time.Hour).In(time.FixedZone("EST", -5*3600)).Format(models.LegacyEventTimeLayout)
	b.add("AAPL", fmt.Sprintf(`{"signal":"buy","at":%q}`, legacy))
	exec := &fakeExecutor{}
	c, _ := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 1)

	assert.Equal(t, []call{{"buy", "AAPL"}}, exec.Calls())
}

func TestConsumer_PoisonMessagesAreCommitted(t *testing.T) {
	b := &fakeBroker{}
	b.add("AAPL", event("hold", testNow))
	b.add("AAPL", `not json`)
	b.add("", event("buy", testNow))
	b.add("AAPL", `{"signal":"buy","at":"last tuesday"}`)
	exec := &fakeExecutor{}
	c, state := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 4)

	assert.Empty(t, exec.Calls())
	assert.Equal(t, health.Counters{Skipped: 4}, state.Counters())
}

func TestConsumer_DispatchErrorIsRedelivered(t *testing.T) {
	b := &fakeBroker{}
	b.add("AAPL", event("buy", testNow))
	b.add("MSFT", event("sell", testNow))
	exec := &fakeExecutor{err: errors.New("robinhood: 503")}
	c, state := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 2)

	// three deliveries each, then given up
	assert.Equal(t, []call{
		{"buy", "AAPL"}, {"buy", "AAPL"}, {"buy", "AAPL"},
		{"sell", "MSFT"}, {"sell", "MSFT"}, {"sell", "MSFT"},
	}, exec.Calls())
	assert.Equal(t, int64(6), state.Counters().Failed)
	assert.Empty(t, c.deliveries)
}

func TestConsumer_RecoversFromPanic(t *testing.T) {
	b := &fakeBroker{}
	b.add("AAPL", event("buy", testNow))
	exec := &fakeExecutor{panic: true}
	c, _ := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 1)

	assert.Len(t, exec.Calls(), 3)
}

func TestConsumer_SubscribeRetries(t *testing.T) {
	b := &fakeBroker{subscribeErrs: 2}
	b.add("AAPL", event("buy", testNow))
	exec := &fakeExecutor{}
	c, state := newTestConsumer(b, exec)

	runUntilCommitted(t, c, b, 1)

	b.mu.Lock()
	assert.Equal(t, 3, b.subscribes)
	b.mu.Unlock()
	assert.Len(t, exec.Calls(), 1)
	assert.False(t, state.Subscribed())
}

func TestConsumer_SubscribeStopsWithContext(t *testing.T) {
	b := &fakeBroker{subscribeErrs: 1 << 30}
	c, state := newTestConsumer(b, &fakeExecutor{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.NoError(t, c.Run(ctx))
	assert.False(t, state.Ready())
}
