package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_writesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(path, true)

	log.Info("booking completed", zap.String("reference", "SKY0042"))
	log.Debug("not written at info level")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "booking completed", entry["message"])
	assert.Equal(t, "SKY0042", entry["reference"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_withoutFile(t *testing.T) {
	log := New("", false)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}
