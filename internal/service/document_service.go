package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/storage"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileUpload is one incoming file: a name plus its bytes.
type FileUpload struct {
	Name    string
	Content []byte
}

type UploadDocumentsResponse struct {
	StepID         string              `json:"step_id"`
	FilesUploaded  int                 `json:"files_uploaded"`
	TotalDocuments int                 `json:"total_documents"`
	Documents      []model.DocumentRef `json:"documents"`
}

// DocumentService attaches uploaded file references to a workflow step. The
// bytes go to the file-storage collaborator; the step only records references.
type DocumentService interface {
	UploadStepDocuments(ctx context.Context, stepID string, files []FileUpload) (UploadDocumentsResponse, error)
}

type documentService struct {
	tx     repository.TransactionManager
	steps  repository.WorkflowStepRepository
	files  storage.FileStorage
	logger *zap.Logger
}

func NewDocumentService(tx repository.TransactionManager, steps repository.WorkflowStepRepository, files storage.FileStorage, logger *zap.Logger) DocumentService {
	return &documentService{tx: tx, steps: steps, files: files, logger: logger}
}

// uploadableStatuses: completed and rejected steps no longer accept documents.
func uploadable(status string) bool {
	switch workflow.StepStatus(status) {
	case workflow.StatusPending, workflow.StatusInProgress, workflow.StatusOnHold:
		return true
	}
	return false
}

func (s *documentService) UploadStepDocuments(ctx context.Context, stepID string, files []FileUpload) (UploadDocumentsResponse, error) {
	id, err := uuid.Parse(stepID)
	if err != nil {
		return UploadDocumentsResponse{}, fmt.Errorf("invalid step id: %w", err)
	}
	if len(files) == 0 {
		return UploadDocumentsResponse{}, fmt.Errorf("no files uploaded")
	}

	step, err := s.steps.GetByID(ctx, id)
	if err != nil {
		return UploadDocumentsResponse{}, err
	}
	if !uploadable(step.Status) {
		return UploadDocumentsResponse{}, fmt.Errorf("%w: step %d is %s and no longer accepts documents", workflow.ErrInvalidTransition, step.StepNumber, step.Status)
	}

	// Store bytes first; a storage failure leaves the step untouched.
	newDocs := make([]model.DocumentRef, 0, len(files))
	for _, f := range files {
		stored, err := s.files.Save(step.ID, f.Name, f.Content)
		if err != nil {
			return UploadDocumentsResponse{}, fmt.Errorf("%w: %v", workflow.ErrStorageFailure, err)
		}
		newDocs = append(newDocs, model.DocumentRef{
			Name:       stored.Name,
			Path:       stored.Path,
			Size:       stored.Size,
			UploadedAt: time.Now(),
		})
	}

	var allDocs []model.DocumentRef
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-read inside the transaction so concurrent uploads append instead
		// of overwriting each other.
		current, err := s.steps.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		allDocs = parseDocuments(current.Documents)
		allDocs = append(allDocs, newDocs...)

		encoded, err := json.Marshal(allDocs)
		if err != nil {
			return fmt.Errorf("failed to encode documents: %w", err)
		}
		return s.steps.UpdateDocuments(txCtx, current.ID, string(encoded))
	})
	if err != nil {
		return UploadDocumentsResponse{}, err
	}

	s.logger.Info("step documents uploaded",
		zap.String("step_id", step.ID.String()),
		zap.Int("files", len(newDocs)),
		zap.Int("total", len(allDocs)))

	return UploadDocumentsResponse{
		StepID:         step.ID.String(),
		FilesUploaded:  len(newDocs),
		TotalDocuments: len(allDocs),
		Documents:      allDocs,
	}, nil
}
