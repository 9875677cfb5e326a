package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// AvatarStore manages the local avatar directory. Paths stored on user rows
// point into this directory; anything outside it is never touched.
type AvatarStore struct {
	dir string
}

func NewAvatarStore(dir string) (*AvatarStore, error) {
	abs, err := filepath.Abs(dir)

	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	return &AvatarStore{dir: abs}, nil
}

func (s *AvatarStore) Dir() string {
	return s.dir
}

// Contains reports whether path lies inside the managed directory.
func (s *AvatarStore) Contains(path string) bool {
	abs, err := filepath.Abs(path)

	if err != nil {
		return false
	}

	rel, err := filepath.Rel(s.dir, abs)

	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Save writes an uploaded avatar and returns its stored path.
func (s *AvatarStore) Save(userID uint, ext string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%d%s", userID, ext))

	f, err := os.Create(path)

	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	return path, nil
}

// Remove deletes a stored avatar. Paths outside the managed directory are
// rejected rather than removed.
func (s *AvatarStore) Remove(path string) error {
	if !s.Contains(path) {
		return fmt.Errorf("path %q is outside the avatar directory", path)
	}

	return os.Remove(path)
}
