package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)

	assert.False(t, log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud")

	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Infow("discarded", "key", "value") })
}
