package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/draytht/nocarry/internal/config"
	"github.com/google/uuid"
)

// Storage persists uploaded file content and serves it back by URL.
type Storage interface {
	// Save writes the content and returns the stored path and public URL.
	Save(projectID uint, filename string, content io.Reader) (path string, url string, err error)
	Remove(path string) error
}

// LocalStorage keeps uploads on the local disk under a per-project
// directory, served as static files at the configured base URL.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(cfg *config.StorageConfig) (*LocalStorage, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{
		root:    cfg.UploadDir,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

// Save stores content under a random name, preserving the original
// extension. The original filename is kept in the database, not on disk.
func (s *LocalStorage) Save(projectID uint, filename string, content io.Reader) (string, string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("project-%d", projectID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	name := uuid.New().String() + filepath.Ext(filename)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", "", err
	}

	url := fmt.Sprintf("%s/project-%d/%s", s.baseURL, projectID, name)
	return path, url, nil
}

func (s *LocalStorage) Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
