package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agrirent/internal/domain/service"
)

// LocalStorage writes files below a root directory. URLs are baseURL + "/files/" + object name,
// or a plain relative path when baseURL is empty.
type LocalStorage struct {
	root    string
	baseURL string
}

var _ service.FileUploadService = (*LocalStorage)(nil)

func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, error) {
	name := objectName(folder, fileType, isPublic, time.Now())
	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, file); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return s.baseURL + "/files/" + name, nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, fileURL string) error {
	idx := strings.Index(fileURL, "/files/")
	if idx < 0 {
		return fmt.Errorf("invalid local file URL")
	}
	rel := filepath.FromSlash(fileURL[idx+len("/files/"):])
	if strings.Contains(rel, "..") {
		return fmt.Errorf("invalid local file URL")
	}
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Close() error {
	return nil
}
