package llm

import (
	"context"
	"errors"
	"strings"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds a single user turn.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// ChatStreamer abstracts chat-completion providers that stream their answer.
// onChunk receives content fragments in arrival order; returning an error
// from it aborts the stream with that error.
type ChatStreamer interface {
	ChatStream(ctx context.Context, model string, messages []Message, onChunk func(fragment string) error) error
}

// Collect runs a streaming chat and concatenates every fragment.
func Collect(ctx context.Context, client ChatStreamer, model string, messages []Message) (string, error) {
	if client == nil {
		return "", ErrNotConfigured
	}
	var b strings.Builder
	err := client.ChatStream(ctx, model, messages, func(fragment string) error {
		b.WriteString(fragment)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// ErrNotConfigured is returned when no provider is wired.
var ErrNotConfigured = errors.New("llm client not configured")
