package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agentstation/teamroster/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	logging.SetDefault(logger)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	if !strings.Contains(output, "info message") {
		t.Errorf("Expected info message in output, got: %s", output)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithMember(ctx, "a_lee")
	ctx = logging.WithOperation(ctx, "merge")

	logger := logging.FromContext(ctx)
	logger.Info().Msg("test message")

	testLogger.AssertContains(t, "a_lee")
	testLogger.AssertContains(t, "merge")
	testLogger.AssertContains(t, "test message")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if logging.FromContext(context.Background()) == nil {
		t.Error("expected default logger for bare context")
	}
	if logging.FromContext(nil) == nil { //nolint:staticcheck // exercising nil handling
		t.Error("expected default logger for nil context")
	}
}

func TestConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		config *logging.Config
		check  func(t *testing.T, output string)
	}{
		{
			name:   "debug level",
			config: &logging.Config{Level: "debug", Format: "json"},
			check: func(t *testing.T, output string) {
				if !strings.Contains(output, `"level":"debug"`) {
					t.Errorf("Expected debug level in output")
				}
			},
		},
		{
			name:   "error level only",
			config: &logging.Config{Level: "error", Format: "json"},
			check: func(t *testing.T, output string) {
				if strings.Contains(output, `"level":"info"`) {
					t.Errorf("Should not contain info level when set to error")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.config.Output = "discard"
			logger := logging.NewLoggerFromConfig(tt.config)
			logger = logger.Output(buf)

			logger.Debug().Msg("debug entry")
			logger.Info().Msg("info entry")
			logger.Error().Msg("error entry")

			tt.check(t, buf.String())
		})
	}
}
