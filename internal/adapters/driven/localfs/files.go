// Package localfs implements driven.LocalFiles on an afero filesystem.
package localfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

// Ensure Files implements the interface.
var _ driven.LocalFiles = (*Files)(nil)

// Files reads user files and writes downloads into one directory.
type Files struct {
	fs           afero.Fs
	downloadsDir string
}

// New creates Files over fs. An empty downloadsDir means the current
// directory.
func New(fs afero.Fs, downloadsDir string) *Files {
	if downloadsDir == "" {
		downloadsDir = "."
	}
	return &Files{fs: fs, downloadsDir: downloadsDir}
}

// NewOS creates Files over the real filesystem.
func NewOS(downloadsDir string) *Files {
	return New(afero.NewOsFs(), downloadsDir)
}

// ReadFile returns the content of path.
func (f *Files) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// SaveDownload writes data to the downloads directory under the base of
// name. The file is written to a temporary name first and renamed, so a
// failed write never leaves a truncated export behind.
func (f *Files) SaveDownload(name string, data []byte) (string, error) {
	if err := f.fs.MkdirAll(f.downloadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}

	target := filepath.Join(f.downloadsDir, filepath.Base(name))

	tmp, err := afero.TempFile(f.fs, f.downloadsDir, ".labelkit-download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", target, err)
	}
	if err := f.fs.Chmod(tmpName, 0o644); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("chmod %s: %w", target, err)
	}
	if err := f.fs.Rename(tmpName, target); err != nil {
		_ = f.fs.Remove(tmpName)
		return "", fmt.Errorf("rename to %s: %w", target, err)
	}
	return target, nil
}

// DownloadsDir returns the directory exports are written to.
func (f *Files) DownloadsDir() string {
	return f.downloadsDir
}
