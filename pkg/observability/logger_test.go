package observability_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/graphmesh/graphmesh/pkg/observability"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(orig) })
	return &buf
}

func TestStandardLoggerFields(t *testing.T) {
	buf := captureOutput(t)
	logger := observability.NewStandardLogger("auth")

	logger.Info("login", map[string]interface{}{"principal": "alice", "ok": true})

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "[auth]")
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "ok=true")
	assert.Contains(t, out, "principal=alice")
}

func TestStandardLoggerLevelFiltering(t *testing.T) {
	buf := captureOutput(t)
	logger := observability.NewStandardLogger("auth").WithLevel(observability.LogLevelWarn)

	logger.Debug("hidden", nil)
	logger.Info("hidden too", nil)
	logger.Warn("shown", nil)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestStandardLoggerWith(t *testing.T) {
	buf := captureOutput(t)
	logger := observability.NewStandardLogger("auth").With(map[string]interface{}{"session": "s1"})

	logger.Info("check", nil)
	assert.Contains(t, buf.String(), "session=s1")
}

func TestNoopLogger(t *testing.T) {
	buf := captureOutput(t)
	logger := observability.NewNoopLogger()

	logger.Info("discarded", map[string]interface{}{"k": "v"})
	logger.Error("discarded", nil)
	assert.Empty(t, buf.String())
}
