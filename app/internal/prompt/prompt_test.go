package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestLine_AsksInOrder(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("  https://youtu.be/x \nAUDIO\nlast"), &out)
	ctx := context.Background()

	for _, want := range []string{"https://youtu.be/x", "AUDIO", "last"} {
		got, err := p.Ask(ctx, "Please input the URL.")
		if err != nil {
			t.Fatalf("Ask() error = %v", err)
		}
		if got != want {
			t.Fatalf("Ask() = %q, want %q", got, want)
		}
	}

	if _, err := p.Ask(ctx, "again"); !errors.Is(err, io.EOF) {
		t.Fatalf("Ask() after input end error = %v, want io.EOF", err)
	}

	if !strings.HasPrefix(out.String(), "Please input the URL.\n\n>>>  ") {
		t.Fatalf("prompt output = %q", out.String())
	}
}

func TestLine_HonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	p := NewLine(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Ask(ctx, "waiting"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Ask() error = %v, want DeadlineExceeded", err)
	}

	// the line typed after the cancelled prompt goes to the next one
	go w.Write([]byte("video\n"))

	got, err := p.Ask(context.Background(), "again")
	if err != nil || got != "video" {
		t.Fatalf("Ask() = %q, %v", got, err)
	}
}
