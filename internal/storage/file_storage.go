package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoredFile is what the engine records about an uploaded file. The bytes stay
// with the storage backend.
type StoredFile struct {
	Name string
	Path string
	Size int64
}

// FileStorage is the external file-storage collaborator. Implementations take
// raw bytes and return a durable reference.
type FileStorage interface {
	Save(stepID uuid.UUID, filename string, content []byte) (StoredFile, error)
}

// LocalFileStorage keeps step documents on the local filesystem under
// baseDir/steps/<stepID>/.
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

func NewLocalFileStorage(baseDir string, logger *zap.Logger) *LocalFileStorage {
	return &LocalFileStorage{
		baseDir: baseDir,
		logger:  logger,
	}
}

func (s *LocalFileStorage) Save(stepID uuid.UUID, filename string, content []byte) (StoredFile, error) {
	safeName := sanitizeFilename(filename)
	if safeName == "" {
		return StoredFile{}, fmt.Errorf("invalid filename %q", filename)
	}

	dir := filepath.Join(s.baseDir, "steps", stepID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create storage directory: %w", err)
	}

	// Timestamp prefix keeps repeated uploads of the same filename distinct.
	fullPath := filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), safeName))
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Info("stored step document",
		zap.String("step_id", stepID.String()),
		zap.String("path", fullPath),
		zap.Int("size", len(content)))

	return StoredFile{
		Name: safeName,
		Path: fullPath,
		Size: int64(len(content)),
	}, nil
}

// sanitizeFilename strips path components so uploads cannot traverse out of
// the step directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
