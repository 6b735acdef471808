package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveWithKeyOverwritesAndOpens(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.SaveWithKey(ctx, "exports/cover_letter.pdf", "application/pdf", strings.NewReader("first")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	n, err := store.SaveWithKey(ctx, "exports/cover_letter.pdf", "application/pdf", strings.NewReader("second"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if n != int64(len("second")) {
		t.Fatalf("expected %d bytes written, got %d", len("second"), n)
	}

	rc, err := store.Open(ctx, "exports/cover_letter.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../escape.pdf", "/abs/path.pdf", ""} {
		if _, err := store.SaveWithKey(ctx, key, "application/pdf", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
}

func TestCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.SaveWithKey(ctx, "a.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected context error")
	}
}
