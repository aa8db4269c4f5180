package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorageSave(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalFileStorage(dir, zap.NewNop())
	stepID := uuid.New()

	stored, err := store.Save(stepID, "po_scan.pdf", []byte("pdf content"))
	require.NoError(t, err)

	assert.Equal(t, "po_scan.pdf", stored.Name)
	assert.Equal(t, int64(len("pdf content")), stored.Size)
	assert.True(t, strings.HasPrefix(stored.Path, filepath.Join(dir, "steps", stepID.String())))

	content, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf content"), content)
}

func TestLocalFileStorageDistinguishesRepeatedNames(t *testing.T) {
	store := NewLocalFileStorage(t.TempDir(), zap.NewNop())
	stepID := uuid.New()

	first, err := store.Save(stepID, "doc.pdf", []byte("v1"))
	require.NoError(t, err)
	second, err := store.Save(stepID, "doc.pdf", []byte("v2"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}

func TestLocalFileStorageStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalFileStorage(dir, zap.NewNop())
	stepID := uuid.New()

	stored, err := store.Save(stepID, "../../etc/passwd", []byte("nope"))
	require.NoError(t, err)

	assert.Equal(t, "passwd", stored.Name)
	assert.True(t, strings.HasPrefix(stored.Path, filepath.Join(dir, "steps", stepID.String())),
		"file must stay inside the step directory")
}

func TestLocalFileStorageRejectsEmptyFilename(t *testing.T) {
	store := NewLocalFileStorage(t.TempDir(), zap.NewNop())

	_, err := store.Save(uuid.New(), "  ", nil)
	require.Error(t, err)

	_, err = store.Save(uuid.New(), "..", nil)
	require.Error(t, err)
}
