package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/shared/storage/object/local"
)

func TestExportWritesEveryLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cover_letter.pdf")
	lines := []string{
		"Oct 19, 2026",
		"",
		"Dear Hiring Manager,",
		strings.Repeat("I build reliable distributed systems in Go and enjoy mentoring engineers. ", 6),
		"Sincerely, Jane",
	}

	got, err := New(path, nil).Export(context.Background(), strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	text, pages := readPDF(t, path)
	assert.GreaterOrEqual(t, pages, 1)
	for _, line := range lines {
		assert.Contains(t, squash(text), squash(line), "line lost: %q", line)
	}
}

func TestRenderBreaksPages(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 80; i++ {
		fmt.Fprintf(&b, "Paragraph %d\n", i)
	}

	doc, err := Render(b.String())
	require.NoError(t, err)
	// 80 lines at 10mm on A4 (297mm, 10mm top, 15mm bottom) need at least 3 pages.
	assert.GreaterOrEqual(t, doc.PageCount(), 3)
}

func TestRenderEmptyContentStillHasPage(t *testing.T) {
	doc, err := Render("")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())
}

func TestExportOverwritesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover_letter.pdf")
	exp := New(path, nil)

	_, err := exp.Export(context.Background(), "first letter")
	require.NoError(t, err)
	_, err = exp.Export(context.Background(), "second letter")
	require.NoError(t, err)

	text, _ := readPDF(t, path)
	assert.Contains(t, squash(text), "secondletter")
	assert.NotContains(t, squash(text), "firstletter")
}

func TestExportMirrorsToStore(t *testing.T) {
	dir := t.TempDir()
	store := local.New(filepath.Join(dir, "store"))
	path := filepath.Join(dir, "cover_letter.pdf")

	_, err := New(path, store).Export(context.Background(), "Dear Hiring Manager...")
	require.NoError(t, err)

	rc, err := store.Open(context.Background(), "cover_letter.pdf")
	require.NoError(t, err)
	defer rc.Close()
	mirrored, err := io.ReadAll(rc)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, written, mirrored)
}

func TestExportMirrorFailureDoesNotFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover_letter.pdf")
	exp := New(path, failingStore{})

	got, err := exp.Export(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestNewDefaultsPath(t *testing.T) {
	exp := New("  ", nil)
	assert.Equal(t, DefaultPath, exp.Path)
	assert.Equal(t, "cover_letter.pdf", exp.Key)
}

type failingStore struct{}

func (failingStore) SaveWithKey(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	return 0, errors.New("bucket unavailable")
}

func (failingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unavailable")
}

func readPDF(t *testing.T, path string) (string, int) {
	t.Helper()
	f, r, err := pdf.Open(path)
	require.NoError(t, err)
	defer f.Close()

	plain, err := r.GetPlainText()
	require.NoError(t, err)
	data, err := io.ReadAll(plain)
	require.NoError(t, err)
	return string(data), r.NumPage()
}

// squash drops whitespace so wrapped lines compare equal to their source.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
