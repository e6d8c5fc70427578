// Package console prints the user facing side of a run: the messages that
// answer each prompt, download progress and the final summary.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

var (
	warn    = color.New(color.FgYellow)
	fail    = color.New(color.FgRed)
	good    = color.New(color.FgGreen)
	info    = color.New(color.FgCyan)
	neutral = color.New(color.Reset)
)

// Reporter writes one line per orchestrator event.
type Reporter struct {
	w  io.Writer
	mu sync.Mutex
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Attach subscribes the reporter to every topic on bus.
func (r *Reporter) Attach(bus events.Bus) error {
	for _, topic := range events.Topics {
		if err := bus.Subscribe(topic, r.Handle); err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
	}
	return nil
}

func (r *Reporter) Handle(e events.Event) {
	c, msg := render(e)
	if msg == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	c.Fprintln(r.w, msg)
}

func render(e events.Event) (*color.Color, string) {
	switch e.Topic {
	case events.URLInvalid:
		return warn, "That is not a valid YouTube URL. Please try again."
	case events.URLClassified:
		if e.Category == media.Unsupported {
			return fail, "Error: Unknown media type!"
		}
		return info, fmt.Sprintf("URL is detected to be a %s", e.Category)
	case events.FormatInvalid:
		return warn, fmt.Sprintf("%s is not a valid format.", e.Input)
	case events.CategoryRejected:
		// already reported as an unknown media type on classification
		if e.Category == media.Unsupported {
			return nil, ""
		}
		if e.Err != nil {
			return fail, fmt.Sprintf("%s downloads are currently not supported: %v.", e.Category, e.Err)
		}
		return fail, fmt.Sprintf("%s downloads are currently not supported.", e.Category)
	case events.DownloadStarted:
		return neutral, fmt.Sprintf("Downloading the %s from %s", e.Format, e.URL)
	case events.PlaylistStarted:
		return neutral, fmt.Sprintf("Downloading %d items from %s", e.Total, e.Title)
	case events.ItemProgress:
		return info, fmt.Sprintf("Downloading %d / %d.", e.Index, e.Total)
	case events.ItemSaved:
		return good, fmt.Sprintf("Saved %s", e.Path)
	case events.ItemFailed:
		target := e.URL
		if target == "" {
			target = e.ItemID
		}
		return fail, fmt.Sprintf("Download failed for %s: %v", target, e.Err)
	}
	return nil, ""
}
