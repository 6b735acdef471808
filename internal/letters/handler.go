package letters

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/inputs"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Exporter turns a finished letter into a document and returns its path.
type Exporter interface {
	Export(ctx context.Context, content string) (string, error)
}

// Handler wires the form and its actions to the service and exporter.
type Handler struct {
	Svc            *Service
	Exporter       Exporter
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, exporter Exporter, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, Exporter: exporter, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the form at the root of r. generateMW runs in front
// of the generation action only.
func (h *Handler) RegisterRoutes(r gin.IRoutes, generateMW ...gin.HandlerFunc) {
	r.GET("/", h.form)
	r.POST("/generate", append(generateMW, h.generate)...)
	r.POST("/export", h.export)
}

type pageData struct {
	JobOption    string
	ResumeOption string
	JobText      string
	ResumeText   string
	CoverLetter  string
	Notice       string
	Model        string
}

func (h *Handler) newPage() pageData {
	return pageData{
		JobOption:    string(inputs.ModeUpload),
		ResumeOption: string(inputs.ModeUpload),
		Model:        h.Svc.Model,
	}
}

func (h *Handler) form(c *gin.Context) {
	respond.Page(c, http.StatusOK, pageTmpl, h.newPage())
}

type generateResponse struct {
	GenerationID string `json:"generationId"`
	CoverLetter  string `json:"coverLetter"`
	Failed       bool   `json:"failed"`
}

func (h *Handler) generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "uploads exceed the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read form", nil)
		return
	}

	jobSrc, err := readSource(c, "job_option", "job_file", "job_text")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read job_file", nil)
		return
	}
	resumeSrc, err := readSource(c, "resume_option", "resume_file", "resume_text")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume_file", nil)
		return
	}

	ctx := c.Request.Context()
	jobDescription, err := inputs.ResolveJobDescription(ctx, jobSrc)
	if err != nil {
		decodeError(c, "job_file", err)
		return
	}
	resume, err := inputs.ResolveResume(ctx, resumeSrc)
	if err != nil {
		decodeError(c, "resume_file", err)
		return
	}

	res := h.Svc.Generate(ctx, jobDescription, resume)
	c.Set("generationId", res.ID)
	if res.Failed {
		c.Set("outcome", "failed")
	} else {
		c.Set("outcome", "completed")
	}

	if respond.WantsJSON(c) {
		respond.OK(c, generateResponse{
			GenerationID: res.ID,
			CoverLetter:  res.CoverLetter,
			Failed:       res.Failed,
		})
		return
	}

	page := h.newPage()
	page.JobOption = string(jobSrc.Mode)
	page.ResumeOption = string(resumeSrc.Mode)
	page.JobText = jobSrc.Pasted
	page.ResumeText = resumeSrc.Pasted
	page.CoverLetter = res.CoverLetter
	respond.Page(c, http.StatusOK, pageTmpl, page)
}

func (h *Handler) export(c *gin.Context) {
	content := c.PostForm("content")
	if strings.TrimSpace(content) == "" {
		c.Set("outcome", "skipped")
		if respond.WantsJSON(c) {
			c.Status(http.StatusNoContent)
			return
		}
		page := h.newPage()
		page.Notice = "Nothing to export yet. Generate a cover letter first."
		respond.Page(c, http.StatusOK, pageTmpl, page)
		return
	}

	path, err := h.Exporter.Export(c.Request.Context(), content)
	if err != nil {
		telemetry.Error("export.failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "export_failed", "failed to write PDF", nil)
		return
	}

	c.Set("outcome", "exported")
	c.FileAttachment(path, filepath.Base(path))
}

// readSource collects both candidates for one field. A form without the file
// part is not an error: the resolver substitutes its placeholder.
func readSource(c *gin.Context, optionField, fileField, textField string) (inputs.Source, error) {
	src := inputs.Source{
		Mode:   inputs.ParseMode(c.DefaultPostForm(optionField, string(inputs.ModeUpload))),
		Pasted: c.PostForm(textField),
	}

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return src, nil
		}
		return src, err
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		return src, err
	}
	src.File = data
	src.HasFile = true
	src.FileName = fileHeader.Filename
	src.MimeType = fileHeader.Header.Get("Content-Type")
	return src, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func decodeError(c *gin.Context, field string, err error) {
	telemetry.Warn("inputs.decode.failed", map[string]any{
		"request_id": c.GetString("requestId"),
		"field":      field,
		"err":        err.Error(),
	})
	respond.Error(c, http.StatusBadRequest, "validation_error", field+" is not readable text", nil)
}
