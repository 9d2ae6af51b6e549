package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_FallsBackToLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := New("", 0, zap.New(core))

	_, ok := n.(*Log)
	require.True(t, ok)

	n.Sendf("BUY %d x %s", 6, "AAPL")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "BUY 6 x AAPL", entries[0].Message)
	assert.Equal(t, "notify", entries[0].LoggerName)
}

func TestTelegram_NilSafe(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() { tg.Send("x") })
}
