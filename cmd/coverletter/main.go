package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"coverletter-backend/internal/export"
	"coverletter-backend/internal/inputs"
	"coverletter-backend/internal/letters"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/ollama"
	"coverletter-backend/internal/shared/config"
)

type options struct {
	jdPath     string
	resumePath string
	outPath    string
	model      string
	ollamaURL  string
	skipPDF    bool
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command. A nil client selects Ollama from the flags.
func newRootCmd(client llm.ChatStreamer) *cobra.Command {
	cfg := config.Load()
	opts := options{}

	cmd := &cobra.Command{
		Use:   "coverletter",
		Short: "Draft a cover letter from a job description and a resume",
		Long: `Draft a cover letter with a local Ollama model and export it as an A4 PDF.

Inputs may be plain text, PDF or DOCX files.

Example:
  coverletter --jd jd.txt --resume resume.pdf --out letter.pdf`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client
			if c == nil {
				c = ollama.NewClient(opts.ollamaURL, cfg.OllamaTimeout)
			}
			return run(cmd.Context(), opts, c, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "Path to the job description (txt, pdf or docx)")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "Path to the resume (txt, pdf or docx)")
	cmd.Flags().StringVar(&opts.outPath, "out", cfg.ExportPath, "Path of the exported PDF")
	cmd.Flags().StringVar(&opts.model, "model", cfg.LLMModel, "Ollama model")
	cmd.Flags().StringVar(&opts.ollamaURL, "ollama", cfg.OllamaBaseURL, "Ollama base URL")
	cmd.Flags().BoolVar(&opts.skipPDF, "skip-pdf", false, "Print the letter without writing a PDF")
	return cmd
}

func run(ctx context.Context, opts options, client llm.ChatStreamer, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	jobDescription, err := resolveFile(ctx, opts.jdPath, inputs.ResolveJobDescription)
	if err != nil {
		return err
	}
	resume, err := resolveFile(ctx, opts.resumePath, inputs.ResolveResume)
	if err != nil {
		return err
	}

	res := letters.NewService(client, opts.model).Generate(ctx, jobDescription, resume)
	fmt.Fprintln(stdout, res.CoverLetter)
	if res.Failed {
		return res.Err
	}
	if opts.skipPDF {
		return nil
	}

	path, err := export.New(opts.outPath, nil).Export(ctx, res.CoverLetter)
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	fmt.Fprintf(stdout, "\nPDF written to %s\n", path)
	return nil
}

// resolveFile reads path as an upload. An empty path resolves to the
// missing-file placeholder, the same as submitting the form without a file.
func resolveFile(ctx context.Context, path string, resolve func(context.Context, inputs.Source) (string, error)) (string, error) {
	src := inputs.Source{Mode: inputs.ModeUpload}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("file not found: %s", path)
			}
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		src.File = data
		src.HasFile = true
		src.FileName = filepath.Base(path)
	}
	return resolve(ctx, src)
}
