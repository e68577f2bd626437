package emit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/containerd/log"
	"github.com/spf13/afero"

	"github.com/sarth-shah20/shardcompose/internal/compose"
)

// Emitter writes the manifest and bootstraps the log files it mounts.
type Emitter struct {
	fs afero.Fs
}

// NewEmitter returns an emitter working on fs. Use afero.NewOsFs() for the
// real filesystem.
func NewEmitter(fs afero.Fs) *Emitter {
	return &Emitter{fs: fs}
}

// Emit serializes m, makes sure every service has a log file under logDir
// and then replaces output with the new manifest.
// A relative logDir is taken from the manifest's directory, the same place
// compose resolves the "./<logDir>" mounts from.
// Nothing is written if serialization fails, and output is never left
// half-written.
func (e *Emitter) Emit(ctx context.Context, m *compose.Manifest, output, logDir string) error {
	data, err := compose.Marshal(m)
	if err != nil {
		return err
	}

	if err := e.EnsureLogFiles(ctx, LogDirFor(output, logDir), m.Services.Names()); err != nil {
		return err
	}

	if err := e.WriteFile(output, data); err != nil {
		return err
	}

	log.G(ctx).WithFields(log.Fields{
		"output":   output,
		"services": len(m.Services),
		"bytes":    len(data),
	}).Info("manifest written")
	return nil
}

// LogDirFor returns where the log files mounted by the manifest at output
// live on the host.
func LogDirFor(output, logDir string) string {
	if filepath.IsAbs(logDir) {
		return logDir
	}
	return filepath.Join(filepath.Dir(output), logDir)
}

// EnsureLogFiles creates dir and an empty <name>.log for every service.
// Existing files are left untouched.
func (e *Emitter) EnsureLogFiles(ctx context.Context, dir string, services []string) error {
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	for _, name := range services {
		path := filepath.Join(dir, compose.LogFileName(name))

		f, err := e.fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to create log file %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close log file %s: %w", path, err)
		}

		log.G(ctx).WithField("path", path).Debug("log file ready")
	}

	return nil
}

// WriteFile replaces path with data through a temporary file in the same
// directory and a rename.
func (e *Emitter) WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	tmp, err := afero.TempFile(e.fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = e.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = e.fs.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err = e.fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move manifest into %s: %w", path, err)
	}

	return nil
}
