package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("warn")
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))

	dev := NewDevelopmentLogger("debug")
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))

	// Unknown levels silence the logger
	nop := NewLogger("chatty")
	assert.False(t, nop.Core().Enabled(zapcore.ErrorLevel))
}
