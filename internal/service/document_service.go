package service

import (
	"context"
	"os"
	"path/filepath"

	"vox-tutor-be/internal/dto"
	"vox-tutor-be/internal/pkg/logger"
	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/internal/repository/memory"
	"vox-tutor-be/pkg/pdftext"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, fileBytes []byte, mimeType, originalName string) (*dto.UploadPdfResponse, error)
	Show(sessionID string) (*dto.ShowPdfResponse, error)
	Delete(sessionID string)
}

type documentService struct {
	sessions       memory.ISessionRepository
	extractor      pdftext.IExtractor
	uploadDir      string
	maxUploadBytes int
	minTextLength  int
	log            logger.ILogger
}

func NewDocumentService(
	sessions memory.ISessionRepository,
	extractor pdftext.IExtractor,
	uploadDir string,
	maxUploadMB int,
	minTextLength int,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		sessions:       sessions,
		extractor:      extractor,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
		minTextLength:  minTextLength,
		log:            log,
	}
}

// Ingest validates the upload, extracts the text layer and opens a
// session. Validation runs before extraction so bad uploads never reach
// the parser.
func (s *documentService) Ingest(ctx context.Context, fileBytes []byte, mimeType, originalName string) (*dto.UploadPdfResponse, error) {
	if len(fileBytes) == 0 {
		return nil, serverutils.ErrInvalidInput("PDF file is required")
	}
	if mimeType != "application/pdf" {
		return nil, serverutils.ErrUnsupportedMediaType("Invalid file. Only PDF allowed!")
	}
	if len(fileBytes) > s.maxUploadBytes {
		return nil, serverutils.ErrPayloadTooLarge("PDF exceeds the maximum upload size")
	}

	result, err := s.extractor.Extract(fileBytes)
	if err != nil {
		s.log.Warn("pdf", "extraction failed", map[string]interface{}{
			"source": originalName,
			"error":  err.Error(),
		})
		return nil, serverutils.ErrInvalidInput("Invalid or corrupted PDF file")
	}
	if len(result.Text) < s.minTextLength {
		return nil, serverutils.ErrInvalidInput("Unable to extract meaningful text from PDF")
	}

	// The session owns the persisted copy; a failed write only loses
	// the on-disk copy, ingestion proceeds from the memory buffer.
	filePath := s.persistUpload(fileBytes, originalName)

	session, err := s.sessions.Create(result.Text, originalName, filePath, result.Pages)
	if err != nil {
		return nil, serverutils.ErrInvalidInput("Unable to extract meaningful text from PDF")
	}

	s.log.Info("pdf", "document ingested", map[string]interface{}{
		"session_id":  session.ID,
		"source":      originalName,
		"pages":       result.Pages,
		"text_length": len(result.Text),
	})

	return &dto.UploadPdfResponse{
		SessionId:  session.ID,
		SourceName: session.SourceName,
		Pages:      session.Pages,
		TextLength: len(session.Text),
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

func (s *documentService) persistUpload(fileBytes []byte, originalName string) string {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		s.log.Warn("pdf", "failed to create upload dir", map[string]interface{}{
			"dir":   s.uploadDir,
			"error": err.Error(),
		})
		return ""
	}
	path := filepath.Join(s.uploadDir, uuid.New().String()+".pdf")
	if err := os.WriteFile(path, fileBytes, 0644); err != nil {
		s.log.Warn("pdf", "failed to persist upload", map[string]interface{}{
			"source": originalName,
			"error":  err.Error(),
		})
		return ""
	}
	return path
}

func (s *documentService) Show(sessionID string) (*dto.ShowPdfResponse, error) {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return nil, serverutils.ErrNotFound("Pdf not found")
	}
	return &dto.ShowPdfResponse{
		SessionId:  session.ID,
		SourceName: session.SourceName,
		Pages:      session.Pages,
		TextLength: len(session.Text),
		CreatedAt:  session.CreatedAt,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}

// Delete evicts the session; the eviction hook removes the persisted
// file. Deleting an unknown session is a no-op.
func (s *documentService) Delete(sessionID string) {
	s.sessions.Evict(sessionID)
}
