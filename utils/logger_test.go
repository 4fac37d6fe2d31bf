package utils

import (
	"testing"

	"neatly/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLogLevelFollowsConfig(t *testing.T) {
	orig := config.AppConfig.LogLevel
	defer func() { config.AppConfig.LogLevel = orig }()

	config.AppConfig.LogLevel = "warn"
	assert.Equal(t, zap.WarnLevel, logLevel())

	config.AppConfig.LogLevel = "error"
	assert.Equal(t, zap.ErrorLevel, logLevel())

	// An unparsable value falls back to the environment default.
	config.AppConfig.LogLevel = "loud"
	assert.Equal(t, zap.DebugLevel, logLevel())
}
