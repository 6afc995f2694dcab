package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"INFO":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"nonsense": zerolog.InfoLevel,
		" debug ":  zerolog.DebugLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestRotatingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	rw, err := NewRotatingFileWriter(path, 64, 2)
	require.NoError(t, err)
	defer rw.Close()

	line := []byte("0123456789012345678901234567890123456789\n") // 41 bytes
	for i := 0; i < 4; i++ {
		_, err := rw.Write(line)
		require.NoError(t, err)
	}

	_, err = os.Stat(path)
	assert.NoError(t, err, "current log file exists")
	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "rotated backup exists")
}

func TestRotatingWriterHonorsBackupCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	rw, err := NewRotatingFileWriter(path, 8, 1)
	require.NoError(t, err)
	defer rw.Close()

	for i := 0; i < 6; i++ {
		_, err := rw.Write([]byte("0123456789\n"))
		require.NoError(t, err)
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".2")
	assert.True(t, os.IsNotExist(err), "only one backup kept")
}

func TestRotatingWriterZeroBackupsStaysBounded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	rw, err := NewRotatingFileWriter(path, 32, 0)
	require.NoError(t, err)
	defer rw.Close()

	line := []byte("0123456789\n") // 11 bytes
	for i := 0; i < 20; i++ {
		_, err := rw.Write(line)
		require.NoError(t, err)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), int64(32+len(line)),
		"file must not grow unbounded past maxBytes")

	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err), "no backups were configured")
}

func TestInitWithoutFileSink(t *testing.T) {
	cleanup, err := Init(Settings{Level: "debug", ToStdout: true})
	require.NoError(t, err)
	cleanup() // safe with no file sink

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitWithFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	cleanup, err := Init(Settings{Level: "info", File: path, MaxBytes: 1 << 20, BackupCount: 1})
	require.NoError(t, err)
	defer cleanup()

	Info().Str("k", "v").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
