package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{0, zapcore.ErrorLevel},
		{1, zapcore.WarnLevel},
		{2, zapcore.InfoLevel},
		{3, zapcore.DebugLevel},
		{4, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestShouldLogTrace(t *testing.T) {
	assert.False(t, ShouldLogTrace(0))
	assert.False(t, ShouldLogTrace(3))
	assert.True(t, ShouldLogTrace(4))
	assert.True(t, ShouldLogTrace(5))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Errors", LevelName(0))
	assert.Equal(t, "Trace (-vvvv)", LevelName(4))
	assert.Equal(t, "Trace (-vvvv+)", LevelName(9))
	assert.Equal(t, "Unknown", LevelName(-1))
}
