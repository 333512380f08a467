package rendition

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Storage holds original and rendition files by slash-separated name.
type Storage interface {
	// Open returns a reader over the named file.
	Open(name string) (io.ReadCloser, error)

	// Save writes r to name, or to a free variant of it when name is taken,
	// and returns the name used.
	Save(name string, r io.Reader) (string, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(name string) error
}

// FileSystem is a Storage rooted at a local directory.
type FileSystem struct {
	root string
}

// NewFileSystem returns a FileSystem storing files under root.
func NewFileSystem(root string) *FileSystem {
	return &FileSystem{root: root}
}

// Root returns the storage directory.
func (fs *FileSystem) Root() string {
	return fs.root
}

// Path returns the local path of name, refusing names that leave the root.
func (fs *FileSystem) Path(name string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	if clean == "/" {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(fs.root, filepath.FromSlash(clean[1:])), nil
}

// Open opens name for reading.
func (fs *FileSystem) Open(name string) (io.ReadCloser, error) {
	p, err := fs.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// maxNameAttempts bounds the numbered variants Save tries.
const maxNameAttempts = 1000

// Save writes r to name. When name exists, "_1", "_2"... is added before the
// extension until a free name is found.
func (fs *FileSystem) Save(name string, r io.Reader) (string, error) {
	p, err := fs.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxNameAttempts; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		if p, err = fs.Path(candidate); err != nil {
			return "", err
		}

		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create file: %w", err)
		}

		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			os.Remove(p)
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		if err := f.Close(); err != nil {
			os.Remove(p)
			return "", fmt.Errorf("failed to write file: %w", err)
		}
		return candidate, nil
	}

	return "", fmt.Errorf("no free file name for %q", name)
}

// Delete removes name. Deleting a missing file is not an error.
func (fs *FileSystem) Delete(name string) error {
	p, err := fs.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
