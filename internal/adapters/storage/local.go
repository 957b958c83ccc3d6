package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ostryk/contactio/internal/core/ports"
)

// LocalAvatarStore keeps avatar files on local disk and serves them under a
// configured public base URL.
type LocalAvatarStore struct {
	dir     string
	baseURL string
}

func NewLocalAvatarStore(dir, baseURL string) *LocalAvatarStore {
	return &LocalAvatarStore{dir: dir, baseURL: baseURL}
}

func (s *LocalAvatarStore) Save(filename string, data io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}

var _ ports.AvatarStore = (*LocalAvatarStore)(nil)
