package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// =============================================================================
// Rotating File Writer
// =============================================================================

// RotatingFileWriter implements io.Writer with log rotation by file size.
// When the current file exceeds maxBytes, it is rotated to .1, .2, etc.
// Used as the zerolog file sink.
type RotatingFileWriter struct {
	mu          sync.Mutex
	path        string
	maxBytes    int
	backupCount int
	file        *os.File
	currentSize int64
}

// NewRotatingFileWriter creates a new rotating file writer.
// maxBytes <= 0 disables rotation (single unbounded file).
func NewRotatingFileWriter(path string, maxBytes, backupCount int) (*RotatingFileWriter, error) {
	dir := filepath.Dir(path)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logger: create log dir: %w", err)
		}
	}

	rw := &RotatingFileWriter{
		path:        path,
		maxBytes:    maxBytes,
		backupCount: backupCount,
	}

	if err := rw.openFile(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *RotatingFileWriter) openFile() error {
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logger: open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	rw.file = f
	rw.currentSize = info.Size()
	return nil
}

// Write implements io.Writer. It writes p to the current log file,
// rotating first if the write would exceed maxBytes.
func (rw *RotatingFileWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.maxBytes > 0 && rw.currentSize+int64(len(p)) > int64(rw.maxBytes) {
		rw.rotate()
	}

	n, err := rw.file.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// Close closes the underlying file.
func (rw *RotatingFileWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.file != nil {
		return rw.file.Close()
	}
	return nil
}

// rotate performs log rotation: file -> file.1, file.1 -> file.2, etc.
// With no backups configured the current file is discarded instead of
// shifted, so maxBytes still bounds disk use.
func (rw *RotatingFileWriter) rotate() {
	rw.file.Close()

	if rw.backupCount < 1 {
		os.Remove(rw.path)
		if err := rw.openFile(); err != nil {
			fmt.Fprintf(os.Stderr, "logger: failed to reopen log file after rotation: %v\n", err)
		}
		return
	}

	// Shift existing backups
	for i := rw.backupCount; i > 0; i-- {
		src := rw.path
		if i > 1 {
			src = fmt.Sprintf("%s.%d", rw.path, i-1)
		}
		dst := fmt.Sprintf("%s.%d", rw.path, i)
		os.Remove(dst)
		os.Rename(src, dst)
	}

	// Open fresh file
	if err := rw.openFile(); err != nil {
		// If we can't reopen the log file, write to stderr as a fallback.
		// This avoids silent data loss.
		fmt.Fprintf(os.Stderr, "logger: failed to reopen log file after rotation: %v\n", err)
	}
}
