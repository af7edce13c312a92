package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestBuild_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.log")

	zl, err := Build(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l := NewZapAdapter(zl).WithFields(map[string]interface{}{"taskType": "contract.render"})
	l.Info("rendered", map[string]interface{}{"templateId": "tmpl-1"})
	l.Debug("hidden", nil)
	_ = zl.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"taskType":"contract.render"`)
	assert.Contains(t, string(data), `"templateId":"tmpl-1"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestWrappers(t *testing.T) {
	l := NewTestLogger(t)
	l.WithError(errors.New("boom")).Warn("warned", nil)
	NewNoOpLogger().Error("ignored", map[string]interface{}{"k": "v"})
	assert.NotNil(t, NewStructured("debug", "console"))
}
