package utils

import (
	"testing"

	"skedy/config"

	"go.uber.org/zap/zapcore"
)

func TestGetLoggerInitializes(t *testing.T) {
	Logger = nil
	if GetLogger() == nil {
		t.Fatalf("expected a logger instance")
	}
}

func TestLoggerHonorsConfiguredLevel(t *testing.T) {
	prev := config.AppConfig.LogLevel
	defer func() {
		config.AppConfig.LogLevel = prev
		Logger = nil
	}()

	config.AppConfig.LogLevel = "warn"
	Logger = nil
	logger := GetLogger()
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn level to be enabled")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info level to be suppressed at warn")
	}
}
