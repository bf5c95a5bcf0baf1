// Package media stores uploaded blog images on disk.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAITARUN432/backendblog/internal/models"

	"github.com/spf13/afero"
)

// PublicPrefix is the URL path uploaded files are served under.
const PublicPrefix = "/uploads/"

// ErrTooLarge is returned when an upload exceeds the configured size limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// Store writes uploads into a flat directory. File names are
// "<unix-millis>-<original base name>".
type Store struct {
	fs       afero.Fs
	maxBytes int64
	now      func() time.Time
}

// NewStore returns a store writing into fs with uploads capped at maxMB megabytes.
func NewStore(fs afero.Fs, maxMB int) *Store {
	return &Store{fs: fs, maxBytes: int64(maxMB) << 20, now: time.Now}
}

// NewDiskStore creates dir if needed and returns a store rooted at it.
func NewDiskStore(dir string, maxMB int) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return NewStore(afero.NewBasePathFs(osFs, dir), maxMB), nil
}

// Save copies r into a new file and returns its public path.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "", models.NewValidationError("Invalid file name")
	}
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), base)

	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil && n > s.maxBytes {
		err = models.NewValidationError(ErrTooLarge.Error())
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return "", err
	}

	return PublicPrefix + name, nil
}
