package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-fetch/pkg/types"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	entry, closer, err := New("20250101_120000", types.LoggingConfig{Dir: dir}, &console)
	require.NoError(t, err)

	entry.Info("search started")
	entry.Debug("hidden at info level")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "search started")
	assert.Contains(t, console.String(), "session=20250101_120000")
	assert.NotContains(t, console.String(), "hidden at info level")

	data, err := os.ReadFile(filepath.Join(dir, "search_20250101_120000.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "search started")
	assert.Contains(t, string(data), "session=20250101_120000")
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestNewWithoutLogDir(t *testing.T) {
	var console bytes.Buffer
	entry, closer, err := New("s1", types.LoggingConfig{Level: "debug"}, &console)
	require.NoError(t, err)
	defer closer.Close()

	entry.Debug("debug visible")
	assert.Equal(t, log.DebugLevel, entry.Logger.GetLevel())
	assert.Contains(t, console.String(), "debug visible")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, _, err := New("s1", types.LoggingConfig{Level: "chatty"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing log level")
}

func TestEnabledLevels(t *testing.T) {
	assert.Equal(t, []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}, enabledLevels(log.WarnLevel))
}
