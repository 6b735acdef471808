// Package inputs picks the text used for each form field from either an
// uploaded file or a pasted string.
package inputs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"coverletter-backend/internal/extract"
)

// Mode selects which source of a field is used.
type Mode string

const (
	ModeUpload Mode = "Upload"
	ModePaste  Mode = "Paste"
)

// Placeholders substituted when upload mode is selected without a file.
const (
	MissingJobDescription = "Job description file is missing."
	MissingResume         = "Resume file is missing."
)

// ErrUndecodable is returned when an uploaded file cannot be read as text.
var ErrUndecodable = errors.New("uploaded file is not valid text")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source carries both candidate inputs for one field.
type Source struct {
	Mode     Mode
	File     []byte
	HasFile  bool
	FileName string
	MimeType string
	Pasted   string
}

// ParseMode maps a form value to a Mode. Anything other than "Upload" is
// treated as paste.
func ParseMode(raw string) Mode {
	if Mode(raw) == ModeUpload {
		return ModeUpload
	}
	return ModePaste
}

// Resolve returns the text to use for src. In upload mode a missing or empty
// file yields missing; in paste mode the pasted string is returned unchanged.
func Resolve(ctx context.Context, src Source, missing string) (string, error) {
	if src.Mode != ModeUpload {
		return src.Pasted, nil
	}
	if !src.HasFile || len(src.File) == 0 {
		return missing, nil
	}
	return decode(ctx, src)
}

// ResolveJobDescription resolves the job description field.
func ResolveJobDescription(ctx context.Context, src Source) (string, error) {
	return Resolve(ctx, src, MissingJobDescription)
}

// ResolveResume resolves the resume field.
func ResolveResume(ctx context.Context, src Source) (string, error) {
	return Resolve(ctx, src, MissingResume)
}

func decode(ctx context.Context, src Source) (string, error) {
	if extract.IsDocument(src.File, src.MimeType, src.FileName) {
		text, err := extract.ExtractTextFromBytes(ctx, src.File, src.MimeType, src.FileName)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrUndecodable, src.FileName, err)
		}
		return text, nil
	}

	data := bytes.TrimPrefix(src.File, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrUndecodable, src.FileName)
	}
	return string(data), nil
}
