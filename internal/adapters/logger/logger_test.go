package logger_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wharf/internal/adapters/logger"
)

func TestLogger_KeyValues(t *testing.T) {
	log := logger.New()

	var buf strings.Builder
	log.SetOutput(&buf)

	log.Info("package removed", "package", "acme/echo:0.1.0")
	log.Warn("skipping non vendor dependency", "package", "acme/ping:0.2.0")

	out := buf.String()
	assert.Contains(t, out, "package removed")
	assert.Contains(t, out, "package=acme/echo:0.1.0")
	assert.Contains(t, out, "level=WARN")
}

func TestLogger_DebugSuppressedByDefault(t *testing.T) {
	log := logger.New()

	var buf strings.Builder
	log.SetOutput(&buf)

	log.Debug("loading manifest", "path", "agent.yaml")
	assert.Empty(t, buf.String())
}
