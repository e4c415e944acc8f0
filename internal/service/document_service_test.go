package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vox-tutor-be/internal/pkg/serverutils"
	"vox-tutor-be/pkg/pdftext"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	result *pdftext.Result
	err    error
	calls  int
}

func (e *fakeExtractor) Extract(fileBytes []byte) (*pdftext.Result, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func TestDocumentServiceIngest(t *testing.T) {
	repo := newFakeSessionRepo()
	extractor := &fakeExtractor{result: &pdftext.Result{
		Text:  "This chapter introduces the laws of motion in detail.",
		Pages: 4,
	}}
	dir := t.TempDir()
	svc := NewDocumentService(repo, extractor, dir, 10, 50, nopLogger{})

	resp, err := svc.Ingest(context.Background(), []byte("%PDF-1.7 fake"), "application/pdf", "motion.pdf")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionId)
	assert.Equal(t, "motion.pdf", resp.SourceName)
	assert.Equal(t, 4, resp.Pages)
	assert.Equal(t, len(extractor.result.Text), resp.TextLength)
	assert.False(t, resp.ExpiresAt.IsZero())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".pdf", filepath.Ext(entries[0].Name()))
}

func TestDocumentServiceIngestRejectsNonPdfBeforeExtraction(t *testing.T) {
	extractor := &fakeExtractor{}
	svc := NewDocumentService(newFakeSessionRepo(), extractor, t.TempDir(), 10, 50, nopLogger{})

	_, err := svc.Ingest(context.Background(), []byte("GIF89a"), "image/gif", "cat.gif")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, apiErr.Code)
	assert.Equal(t, "Invalid file. Only PDF allowed!", apiErr.Message)
	assert.Equal(t, 0, extractor.calls)
}

func TestDocumentServiceIngestRejectsEmptyUpload(t *testing.T) {
	extractor := &fakeExtractor{}
	svc := NewDocumentService(newFakeSessionRepo(), extractor, t.TempDir(), 10, 50, nopLogger{})

	_, err := svc.Ingest(context.Background(), nil, "application/pdf", "empty.pdf")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Code)
	assert.Equal(t, 0, extractor.calls)
}

func TestDocumentServiceIngestRejectsOversizeUpload(t *testing.T) {
	extractor := &fakeExtractor{}
	svc := NewDocumentService(newFakeSessionRepo(), extractor, t.TempDir(), 1, 50, nopLogger{})

	big := make([]byte, 1*1024*1024+1)
	_, err := svc.Ingest(context.Background(), big, "application/pdf", "huge.pdf")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, apiErr.Code)
	assert.Equal(t, 0, extractor.calls)
}

func TestDocumentServiceIngestCorruptedPdf(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("xref table missing")}
	svc := NewDocumentService(newFakeSessionRepo(), extractor, t.TempDir(), 10, 50, nopLogger{})

	_, err := svc.Ingest(context.Background(), []byte("not a pdf"), "application/pdf", "bad.pdf")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Code)
	assert.Equal(t, "Invalid or corrupted PDF file", apiErr.Message)
}

func TestDocumentServiceIngestRejectsScannedPdf(t *testing.T) {
	extractor := &fakeExtractor{result: &pdftext.Result{Text: "short", Pages: 12}}
	svc := NewDocumentService(newFakeSessionRepo(), extractor, t.TempDir(), 10, 50, nopLogger{})

	_, err := svc.Ingest(context.Background(), []byte("%PDF-1.7 scan"), "application/pdf", "scan.pdf")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusBadRequest, apiErr.Code)
	assert.Equal(t, "Unable to extract meaningful text from PDF", apiErr.Message)
}

func TestDocumentServiceIngestProceedsWhenPersistFails(t *testing.T) {
	repo := newFakeSessionRepo()
	extractor := &fakeExtractor{result: &pdftext.Result{
		Text:  strings.Repeat("physics ", 20),
		Pages: 2,
	}}
	// A file in place of the upload dir makes MkdirAll fail.
	blocked := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))
	svc := NewDocumentService(repo, extractor, blocked, 10, 50, nopLogger{})

	resp, err := svc.Ingest(context.Background(), []byte("%PDF-1.7 fake"), "application/pdf", "motion.pdf")

	require.NoError(t, err)
	session, found := repo.Get(resp.SessionId)
	require.True(t, found)
	assert.Empty(t, session.FilePath)
}

func TestDocumentServiceShow(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDocumentService(repo, &fakeExtractor{}, t.TempDir(), 10, 50, nopLogger{})
	session, err := repo.Create("long enough text for a session", "notes.pdf", "", 7)
	require.NoError(t, err)

	resp, err := svc.Show(session.ID)

	require.NoError(t, err)
	assert.Equal(t, session.ID, resp.SessionId)
	assert.Equal(t, "notes.pdf", resp.SourceName)
	assert.Equal(t, 7, resp.Pages)
}

func TestDocumentServiceShowUnknownSession(t *testing.T) {
	svc := NewDocumentService(newFakeSessionRepo(), &fakeExtractor{}, t.TempDir(), 10, 50, nopLogger{})

	_, err := svc.Show("missing")

	var apiErr serverutils.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, fiber.StatusNotFound, apiErr.Code)
}

func TestDocumentServiceDeleteEvictsSession(t *testing.T) {
	repo := newFakeSessionRepo()
	svc := NewDocumentService(repo, &fakeExtractor{}, t.TempDir(), 10, 50, nopLogger{})
	session, err := repo.Create("long enough text for a session", "notes.pdf", "", 1)
	require.NoError(t, err)

	svc.Delete(session.ID)

	assert.Equal(t, []string{session.ID}, repo.evicted)
	_, found := repo.Get(session.ID)
	assert.False(t, found)
}
