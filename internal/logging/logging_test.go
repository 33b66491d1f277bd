package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLBeforeInitIsNoop(t *testing.T) {
	mu.Lock()
	globalLogger = nil
	mu.Unlock()

	l := L()
	require.NotNil(t, l)
	l.Warn("discarded")
}

func TestInitWritesJSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scan.log")

	err := Init(Config{Level: "debug", Format: "json", OutputPath: out})
	require.NoError(t, err)
	t.Cleanup(func() { SetLevel("warn") })

	Named("scan").Debug("probe finished")
	require.NoError(t, Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"probe finished"`)
	assert.Contains(t, string(data), `"logger":"scan"`)
}

func TestSetLevelIgnoresGarbage(t *testing.T) {
	SetLevel("error")
	assert.Equal(t, zapcore.ErrorLevel, globalLevel.Level())

	SetLevel("not-a-level")
	assert.Equal(t, zapcore.ErrorLevel, globalLevel.Level())

	SetLevel("warn")
}
