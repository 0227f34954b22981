package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Package-level structured logger backed by zap. Handlers pass field maps;
// values under secret-like keys are redacted before they reach the sink.

var defaultLogger = build(os.Getenv("LOG_LEVEL"))

func build(levelStr string) *zap.Logger {
	level := zapcore.InfoLevel
	switch strings.ToLower(levelStr) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLevel rebuilds the default logger at the given level.
func SetLevel(levelStr string) {
	defaultLogger = build(levelStr)
}

// UseNop silences the package logger, for tests.
func UseNop() {
	defaultLogger = zap.NewNop()
}

func Debug(message string, fields ...map[string]interface{}) {
	defaultLogger.Debug(message, zapFields(mergeFields(fields...))...)
}

func Info(message string, fields ...map[string]interface{}) {
	defaultLogger.Info(message, zapFields(mergeFields(fields...))...)
}

func Warn(message string, fields ...map[string]interface{}) {
	defaultLogger.Warn(message, zapFields(mergeFields(fields...))...)
}

func Error(message string, fields ...map[string]interface{}) {
	defaultLogger.Error(message, zapFields(mergeFields(fields...))...)
}

func mergeFields(fieldMaps ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, fields := range fieldMaps {
		for k, v := range fields {
			result[k] = v
		}
	}
	return result
}

func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	sanitized := SanitizeFields(fields)
	out := make([]zap.Field, 0, len(sanitized))
	for k, v := range sanitized {
		out = append(out, zap.Any(k, v))
	}
	return out
}

var sensitiveKeys = []string{
	"token", "secret", "password", "api_key",
	"webhook_secret", "signature", "authorization", "auth",
}

// SanitizeFields redacts values whose keys look like credentials.
func SanitizeFields(fields map[string]interface{}) map[string]interface{} {
	if fields == nil {
		return nil
	}

	sanitized := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		keyLower := strings.ToLower(k)

		isSensitive := false
		for _, sensitive := range sensitiveKeys {
			if strings.Contains(keyLower, sensitive) {
				isSensitive = true
				break
			}
		}

		if !isSensitive {
			sanitized[k] = v
			continue
		}

		if str, ok := v.(string); ok && len(str) > 8 {
			sanitized[k] = str[:3] + "..." + str[len(str)-3:]
		} else {
			sanitized[k] = "[REDACTED]"
		}
	}

	return sanitized
}
