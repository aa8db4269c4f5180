package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStorage records saves in memory; failErr makes every Save fail.
type fakeStorage struct {
	saved   []string
	failErr error
}

func (f *fakeStorage) Save(stepID uuid.UUID, filename string, content []byte) (storage.StoredFile, error) {
	if f.failErr != nil {
		return storage.StoredFile{}, f.failErr
	}
	f.saved = append(f.saved, filename)
	return storage.StoredFile{
		Name: filename,
		Path: "steps/" + stepID.String() + "/" + filename,
		Size: int64(len(content)),
	}, nil
}

func newDocumentTestEnv(t *testing.T, files storage.FileStorage) (*testEngine, DocumentService) {
	t.Helper()

	e := newTestEngine(t, true)
	docs := NewDocumentService(
		repository.NewTransactionManager(e.db),
		e.steps,
		files,
		zap.NewNop(),
	)
	return e, docs
}

func TestUploadStepDocuments(t *testing.T) {
	store := &fakeStorage{}
	e, docs := newDocumentTestEnv(t, store)
	ctx := context.Background()
	_, steps := initTestWorkflow(t, e, "PO-2001")

	resp, err := docs.UploadStepDocuments(ctx, steps[2].ID.String(), []FileUpload{
		{Name: "po_scan.pdf", Content: []byte("pdf bytes")},
		{Name: "invoice.pdf", Content: []byte("more bytes")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.FilesUploaded)
	assert.Equal(t, 2, resp.TotalDocuments)
	assert.Equal(t, []string{"po_scan.pdf", "invoice.pdf"}, store.saved)

	step, err := e.steps.GetByID(ctx, steps[2].ID)
	require.NoError(t, err)
	assert.Contains(t, step.Documents, "po_scan.pdf")
	assert.Contains(t, step.Documents, "invoice.pdf")
}

func TestUploadStepDocumentsAppends(t *testing.T) {
	store := &fakeStorage{}
	e, docs := newDocumentTestEnv(t, store)
	ctx := context.Background()
	_, steps := initTestWorkflow(t, e, "PO-2002")

	_, err := docs.UploadStepDocuments(ctx, steps[0].ID.String(), []FileUpload{
		{Name: "first.pdf", Content: []byte("a")},
	})
	require.NoError(t, err)

	resp, err := docs.UploadStepDocuments(ctx, steps[0].ID.String(), []FileUpload{
		{Name: "second.pdf", Content: []byte("b")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.FilesUploaded)
	assert.Equal(t, 2, resp.TotalDocuments, "second upload must append, not replace")
	assert.Equal(t, "first.pdf", resp.Documents[0].Name)
	assert.Equal(t, "second.pdf", resp.Documents[1].Name)
}

func TestUploadStepDocumentsCompletedStep(t *testing.T) {
	store := &fakeStorage{}
	e, docs := newDocumentTestEnv(t, store)
	ctx := context.Background()
	_, steps := initTestWorkflow(t, e, "PO-2003")
	employee := createTestEmployee(t, e.db, "jordan@example.com", true)

	startStep(t, e, steps[0].ID, employee.ID)
	_, err := e.workflow.UpdateStepStatus(ctx, UpdateStepStatusRequest{
		StepID: steps[0].ID.String(),
		Status: string(workflow.StatusCompleted),
	})
	require.NoError(t, err)

	_, err = docs.UploadStepDocuments(ctx, steps[0].ID.String(), []FileUpload{
		{Name: "late.pdf", Content: []byte("too late")},
	})
	require.ErrorIs(t, err, workflow.ErrInvalidTransition)
	assert.Empty(t, store.saved, "nothing may reach storage for a closed step")
}

func TestUploadStepDocumentsStorageFailure(t *testing.T) {
	store := &fakeStorage{failErr: errors.New("disk full")}
	e, docs := newDocumentTestEnv(t, store)
	ctx := context.Background()
	_, steps := initTestWorkflow(t, e, "PO-2004")

	_, err := docs.UploadStepDocuments(ctx, steps[0].ID.String(), []FileUpload{
		{Name: "doc.pdf", Content: []byte("bytes")},
	})
	require.ErrorIs(t, err, workflow.ErrStorageFailure)

	// Step state must be untouched.
	step, err := e.steps.GetByID(ctx, steps[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "[]", step.Documents)
}

func TestUploadStepDocumentsValidation(t *testing.T) {
	store := &fakeStorage{}
	e, docs := newDocumentTestEnv(t, store)
	ctx := context.Background()
	_, steps := initTestWorkflow(t, e, "PO-2005")

	_, err := docs.UploadStepDocuments(ctx, "not-a-uuid", []FileUpload{{Name: "a.pdf"}})
	require.Error(t, err)

	_, err = docs.UploadStepDocuments(ctx, steps[0].ID.String(), nil)
	require.Error(t, err)

	_, err = docs.UploadStepDocuments(ctx, uuid.NewString(), []FileUpload{{Name: "a.pdf"}})
	require.ErrorIs(t, err, workflow.ErrNotFound)
}
