package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kennithz884/snapmind/internal/checksum"
)

// imageExts maps accepted image extensions to their MIME types.
var imageExts = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MIMEType returns the MIME type for a stored image name, defaulting to
// image/jpeg for unknown extensions.
func MIMEType(name string) string {
	if m, ok := imageExts[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return "image/jpeg"
}

// FS implements Provider backed by a directory on the local file system.
type FS struct {
	root string // absolute path to the library directory
}

var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("library: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("library: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// safeName validates that name is a plain filename (no separators, no
// traversal) and returns the absolute path under the library root.
func (f *FS) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("library: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("library: invalid filename: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("library: path escapes library root: %s", name)
	}
	return abs, nil
}

// Save atomically writes image bytes: tmp file, fsync, rename. The stored
// name is the short content hash plus the original extension, so re-saving
// the same bytes is idempotent.
func (f *FS) Save(origName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	if _, ok := imageExts[ext]; !ok {
		return "", fmt.Errorf("library: unsupported image type: %s", origName)
	}
	name := checksum.Short(data) + ext
	abs, err := f.safeName(name)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(f.root, ".snapmind-tmp-*")
	if err != nil {
		return "", fmt.Errorf("library: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("library: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("library: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("library: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", fmt.Errorf("library: rename: %w", err)
	}
	success = true
	return name, nil
}

// Read returns the raw bytes of a stored image.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("library: read %s: %w", name, err)
	}
	return data, nil
}

// Path resolves a stored image name to its absolute path for serving.
func (f *FS) Path(name string) (string, error) {
	return f.safeName(name)
}

// List returns the filenames of every stored image, in directory order.
func (f *FS) List() ([]string, error) {
	var out []string
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsImage(d.Name()) {
			return nil
		}
		out = append(out, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("library: list: %w", err)
	}
	return out, nil
}

// Delete removes a stored image.
func (f *FS) Delete(name string) error {
	abs, err := f.safeName(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("library: delete %s: %w", name, err)
	}
	return nil
}
