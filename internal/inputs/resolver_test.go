package inputs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUploadMissingFileUsesPlaceholder(t *testing.T) {
	ctx := context.Background()

	job, err := ResolveJobDescription(ctx, Source{Mode: ModeUpload, Pasted: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "Job description file is missing.", job)

	resume, err := ResolveResume(ctx, Source{Mode: ModeUpload, HasFile: true, File: []byte{}})
	require.NoError(t, err)
	assert.Equal(t, "Resume file is missing.", resume)
}

func TestResolvePasteIsIdentity(t *testing.T) {
	ctx := context.Background()
	for _, pasted := range []string{"", "Senior Engineer at Acme", "  padded\n\tlines  ", "ünïcödé"} {
		got, err := ResolveResume(ctx, Source{Mode: ModePaste, Pasted: pasted, HasFile: true, File: []byte("file wins never")})
		require.NoError(t, err)
		assert.Equal(t, pasted, got)
	}
}

func TestResolveUploadDecodesText(t *testing.T) {
	ctx := context.Background()

	got, err := ResolveJobDescription(ctx, Source{
		Mode:     ModeUpload,
		HasFile:  true,
		File:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Backend role\nGo, Postgres")...),
		FileName: "jd.txt",
		MimeType: "text/plain",
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend role\nGo, Postgres", got)
}

func TestResolveUploadInvalidUTF8(t *testing.T) {
	_, err := ResolveResume(context.Background(), Source{
		Mode:     ModeUpload,
		HasFile:  true,
		File:     []byte{0xff, 0xfe, 0x00, 'a'},
		FileName: "resume.txt",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndecodable))
}

func TestResolveUploadBrokenPDF(t *testing.T) {
	_, err := ResolveResume(context.Background(), Source{
		Mode:     ModeUpload,
		HasFile:  true,
		File:     []byte("%PDF-1.4 truncated"),
		FileName: "resume.pdf",
	})
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeUpload, ParseMode("Upload"))
	assert.Equal(t, ModePaste, ParseMode("Paste"))
	assert.Equal(t, ModePaste, ParseMode("upload"))
	assert.Equal(t, ModePaste, ParseMode(""))
}
