package letters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/metrics"
	"coverletter-backend/internal/shared/telemetry"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "llama3.2"

const failurePrefix = "An error occurred during cover letter generation: "

// Service drafts cover letters with a streaming chat model.
type Service struct {
	LLM   llm.ChatStreamer
	Model string
	Now   func() time.Time
}

// NewService constructs a Service for model.
func NewService(client llm.ChatStreamer, model string) *Service {
	if model == "" {
		model = DefaultModel
	}
	return &Service{LLM: client, Model: model, Now: time.Now}
}

// Result is the outcome of one generation. CoverLetter always holds the text
// to show the user: the letter, or a description of the failure.
type Result struct {
	ID          string
	CoverLetter string
	Failed      bool
	Err         error
	Duration    time.Duration
}

// Generate builds the prompt, streams the model answer and concatenates it.
// Model failures never escape: they come back as the letter text.
func (s *Service) Generate(ctx context.Context, jobDescription, resume string) Result {
	res := Result{ID: uuid.NewString()}
	start := time.Now()
	metrics.IncGenerationStarted()

	prompt := BuildPrompt(jobDescription, resume, s.now())
	text, err := s.invoke(ctx, prompt)

	res.Duration = time.Since(start)
	metrics.ObserveGenerationDurationMs(float64(res.Duration.Microseconds()) / 1000.0)

	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("letters.generate.failed", map[string]any{
			"generation_id": res.ID,
			"model":         s.Model,
			"err":           err.Error(),
			"duration_ms":   res.Duration.Milliseconds(),
		})
		res.Failed = true
		res.Err = err
		res.CoverLetter = failurePrefix + err.Error()
		return res
	}

	metrics.IncGenerationCompleted()
	telemetry.Info("letters.generate.completed", map[string]any{
		"generation_id": res.ID,
		"model":         s.Model,
		"prompt_chars":  len(prompt),
		"letter_chars":  len(text),
		"duration_ms":   res.Duration.Milliseconds(),
	})
	res.CoverLetter = text
	return res
}

func (s *Service) invoke(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%v", rec)
		}
	}()
	return llm.Collect(ctx, s.LLM, s.Model, []llm.Message{llm.UserMessage(prompt)})
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
