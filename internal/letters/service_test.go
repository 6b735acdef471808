package letters

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/llm"
)

type mockStreamer struct {
	mock.Mock
}

func (m *mockStreamer) ChatStream(ctx context.Context, model string, messages []llm.Message, onChunk func(string) error) error {
	args := m.Called(ctx, model, messages)
	if chunks, ok := args.Get(0).([]string); ok {
		for _, c := range chunks {
			if err := onChunk(c); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

type panicStreamer struct{}

func (panicStreamer) ChatStream(ctx context.Context, model string, messages []llm.Message, onChunk func(string) error) error {
	panic("nil stream")
}

func fixedNow() time.Time {
	return time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
}

func TestGenerateScenario(t *testing.T) {
	streamer := new(mockStreamer)
	wantPrompt := BuildPrompt("Senior Engineer at Acme", "10 years C++.", fixedNow())
	streamer.On("ChatStream", mock.Anything, "llama3.2", []llm.Message{{Role: "user", Content: wantPrompt}}).
		Return([]string{"Dear ", "Hiring Manager..."}, nil).Once()

	svc := NewService(streamer, "")
	svc.Now = fixedNow

	res := svc.Generate(context.Background(), "Senior Engineer at Acme", "10 years C++.")

	assert.Equal(t, "Dear Hiring Manager...", res.CoverLetter)
	assert.False(t, res.Failed)
	assert.NoError(t, res.Err)
	assert.NotEmpty(t, res.ID)
	streamer.AssertExpectations(t)
}

func TestGenerateFailureBecomesText(t *testing.T) {
	streamer := new(mockStreamer)
	streamer.On("ChatStream", mock.Anything, "llama3.2", mock.Anything).
		Return([]string{"Dear "}, errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")).Once()

	svc := NewService(streamer, "llama3.2")
	res := svc.Generate(context.Background(), "jd", "cv")

	require.True(t, res.Failed)
	assert.Equal(t, "An error occurred during cover letter generation: dial tcp 127.0.0.1:11434: connect: connection refused", res.CoverLetter)
	assert.NotContains(t, strings.TrimPrefix(res.CoverLetter, "An error"), "Dear ")
}

func TestGenerateRecoversPanics(t *testing.T) {
	svc := NewService(panicStreamer{}, "llama3.2")

	var res Result
	assert.NotPanics(t, func() {
		res = svc.Generate(context.Background(), "jd", "cv")
	})
	assert.True(t, res.Failed)
	assert.Contains(t, res.CoverLetter, "nil stream")
}

func TestGenerateWithoutClient(t *testing.T) {
	res := NewService(nil, "").Generate(context.Background(), "jd", "cv")
	assert.True(t, res.Failed)
	assert.Contains(t, res.CoverLetter, llm.ErrNotConfigured.Error())
}
