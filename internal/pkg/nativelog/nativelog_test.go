package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDir(t *testing.T) {
	t.Setenv(EnvLogDir, "")
	assert.Equal(t, "/var/log/mood", ResolveDir(" /var/log/mood "))
	assert.Equal(t, filepath.Join(".", "logs"), ResolveDir(""))

	t.Setenv(EnvLogDir, "/tmp/override")
	assert.Equal(t, "/tmp/override", ResolveDir("/var/log/mood"))
}

func TestWriter_AppendsToDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, err := NewWriter(dir)
	require.NoError(t, err)

	day := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return day }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	n, err := w.Write(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	raw, err := os.ReadFile(filepath.Join(dir, "stdout_6-3-25.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(raw))
}
