package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"qr-registry/core/utils"

	"github.com/google/uuid"
)

// ErrUnspooledMedia is returned for a local media handle the spool did not create.
var ErrUnspooledMedia = errors.New("media must be a URL or a spooled upload")

// Spool keeps media received over HTTP on local disk until a draft is
// committed. The path of a spooled file is a local media handle.
type Spool struct {
	dir string
}

// NewSpool creates a spool rooted at dir, or at the OS temp directory when dir is empty.
func NewSpool(dir string) (*Spool, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "qr-registry-spool")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve spool dir %s: %w", dir, err)
	}
	dir = abs
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create spool dir %s: %w", dir, err)
	}
	return &Spool{dir: dir}, nil
}

// Dir returns the spool directory.
func (s *Spool) Dir() string {
	return s.dir
}

// Write copies r into a new spool file and returns its handle.
func (s *Spool) Write(name string, r io.Reader) (string, error) {
	base := utils.SafeKeySegment(utils.BaseName(name))
	if base == "" {
		base = "media"
	}

	path := filepath.Join(s.dir, uuid.New().String()+"-"+base)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create spool file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write spool file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close spool file: %w", err)
	}
	return path, nil
}

// Owns reports whether handle names a file directly inside the spool.
func (s *Spool) Owns(handle string) bool {
	if utils.IsRemoteRef(handle) || handle == "" {
		return false
	}
	path := filepath.Clean(utils.LocalPath(handle))
	rel, err := filepath.Rel(s.dir, path)
	return err == nil && rel == filepath.Base(path) && rel != "." && rel != ".."
}

// Check accepts blank media, remote refs and spooled handles. Any other local
// path is rejected with ErrUnspooledMedia so HTTP clients cannot name server files.
func (s *Spool) Check(media string) error {
	if strings.TrimSpace(media) == "" || utils.IsRemoteRef(media) || s.Owns(media) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnspooledMedia, utils.BaseName(media))
}

// Release removes a spooled file. Handles outside the spool are left alone.
func (s *Spool) Release(handle string) {
	if !s.Owns(handle) {
		return
	}
	os.Remove(filepath.Clean(utils.LocalPath(handle)))
}
