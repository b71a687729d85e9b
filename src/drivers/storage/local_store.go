package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var ErrPathTraversal = fmt.Errorf("key escapes base directory")

// LocalStore keeps blobs on the local filesystem under a base directory.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	absBase, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}

	if err := os.MkdirAll(absBase, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base path: %w", err)
	}

	return &LocalStore{
		basePath: absBase,
	}, nil
}

func (s *LocalStore) sanitizeKey(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", ErrPathTraversal
	}
	// Prepend slash so Clean treats it as absolute, then trim to avoid breaking out.
	cleaned := filepath.Clean("/" + key)
	trimmed := strings.TrimPrefix(cleaned, "/")
	full := filepath.Join(s.basePath, trimmed)

	abs, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}

	if abs != s.basePath && !strings.HasPrefix(abs, s.basePath+string(os.PathSeparator)) {
		return "", ErrPathTraversal
	}

	return abs, nil
}

// mimeSuffix names the sidecar holding a blob's declared content type.
const mimeSuffix = ".mimetype"

func (s *LocalStore) Write(ctx context.Context, key string, data io.Reader, contentType string) (int64, error) {
	target, err := s.sanitizeKey(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, data)
	if err != nil {
		os.Remove(target) // Cleanup
		return 0, err
	}

	if contentType != "" {
		if err := os.WriteFile(target+mimeSuffix, []byte(contentType), 0o644); err != nil {
			return n, fmt.Errorf("write content type: %w", err)
		}
	}

	return n, nil
}

func (s *LocalStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := s.sanitizeKey(key)
	if err != nil {
		return nil, err
	}

	return os.Open(target)
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	target, err := s.sanitizeKey(key)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(target, s.basePath) {
		return ErrPathTraversal
	}
	os.Remove(target + mimeSuffix)
	return os.Remove(target)
}

func (s *LocalStore) Stat(ctx context.Context, key string) (*BlobInfo, error) {
	target, err := s.sanitizeKey(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	// Declared content type from upload time wins over extension inference
	mimeType := mime.TypeByExtension(filepath.Ext(info.Name()))
	if raw, err := os.ReadFile(target + mimeSuffix); err == nil {
		mimeType = strings.TrimSpace(string(raw))
	}

	return &BlobInfo{
		Name:     info.Name(),
		Key:      key,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		MimeType: mimeType,
	}, nil
}

func (s *LocalStore) FullPath(key string) (string, error) {
	return s.sanitizeKey(key)
}

// BasePath returns the absolute root directory of the store
func (s *LocalStore) BasePath() string {
	return s.basePath
}
