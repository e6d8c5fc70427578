// Package prompt asks the user for single line answers.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl+C.
var ErrInterrupted = errors.New("prompt interrupted")

type Prompter interface {
	// Ask shows message and returns the trimmed answer. io.EOF is returned
	// once input is exhausted.
	Ask(ctx context.Context, message string) (string, error)
}

// New returns an interactive survey prompter when in and out are terminals
// and a plain line prompter otherwise.
func New(in, out *os.File) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return &Survey{in: in, out: out, err: out}
	}
	return NewLine(in, out)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type line struct {
	text string
	err  error
}

// Line reads answers one line at a time from any reader.
type Line struct {
	out io.Writer

	in    *bufio.Reader
	lines chan line
	once  sync.Once
}

func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan line),
	}
}

// read runs for the lifetime of the prompter so that a cancelled Ask does not
// lose the line the next Ask would have received.
func (l *Line) read() {
	for {
		s, err := l.in.ReadString('\n')
		if err != nil && (s == "" || !errors.Is(err, io.EOF)) {
			l.lines <- line{err: err}
			close(l.lines)
			return
		}
		l.lines <- line{text: s}
	}
}

func (l *Line) Ask(ctx context.Context, message string) (string, error) {
	l.once.Do(func() { go l.read() })

	fmt.Fprintf(l.out, "%s\n\n>>>  ", message)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case ln, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if ln.err != nil {
			return "", ln.err
		}
		return strings.TrimSpace(ln.text), nil
	}
}

// Survey renders prompts through github.com/AlecAivazis/survey.
type Survey struct {
	in  terminal.FileReader
	out terminal.FileWriter
	err io.Writer
}

func (s *Survey) Ask(ctx context.Context, message string) (string, error) {
	type answer struct {
		text string
		err  error
	}
	done := make(chan answer, 1)

	go func() {
		var text string
		err := survey.AskOne(&survey.Input{Message: message}, &text, survey.WithStdio(s.in, s.out, s.err))
		done <- answer{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-done:
		if errors.Is(a.err, terminal.InterruptErr) {
			return "", ErrInterrupted
		}
		return strings.TrimSpace(a.text), a.err
	}
}
