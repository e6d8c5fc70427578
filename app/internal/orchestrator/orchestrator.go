// Package orchestrator drives a run from the URL prompt to the last
// download: it classifies the URL, asks for the format, dispatches to the
// routine for the URL category and records every item outcome.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/marcopiovanello/yt-media-dl/app/internal/backend"
	"github.com/marcopiovanello/yt-media-dl/app/internal/classify"
	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/plan"
	"github.com/marcopiovanello/yt-media-dl/app/internal/prompt"
)

const (
	URLPrompt    = "Please input the URL."
	FormatPrompt = "Would you like to download the audio, video, or both?"
)

type Transcoder interface {
	Convert(ctx context.Context, src string, target media.Container) (string, error)
}

type Options struct {
	Resolver   backend.Resolver
	Fetcher    backend.Fetcher
	Transcoder Transcoder
	Prompter   prompt.Prompter
	Bus        events.Bus
	Layout     plan.Layout

	// Concurrency above 1 downloads playlist items in parallel.
	Concurrency int
	// CleanupRaw removes the downloaded source once it has been converted.
	CleanupRaw bool
}

type handler func(ctx context.Context, s *Session) error

type Orchestrator struct {
	opts     Options
	handlers map[media.Category]handler
}

func New(opts Options) *Orchestrator {
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	o := &Orchestrator{opts: opts}
	o.handlers = map[media.Category]handler{
		media.Single:      o.downloadSingle,
		media.Playlist:    o.downloadPlaylist,
		media.Channel:     o.downloadChannel,
		media.Unsupported: o.rejectUnsupported,
	}
	return o
}

// Run performs one full session. The session is returned even on error so
// callers can report whatever was recorded before the failure.
func (o *Orchestrator) Run(ctx context.Context) (*Session, error) {
	s := newSession()
	defer s.finish()

	url, err := o.awaitURL(ctx)
	if err != nil {
		return s, err
	}
	s.URL = url
	s.Category = classify.Classify(url)

	if err := s.advance(Classified); err != nil {
		return s, err
	}
	events.Publish(o.opts.Bus, events.URLClassified, events.Event{URL: url, Category: s.Category})

	slog.Info("url classified",
		slog.String("session", s.ID),
		slog.String("url", url),
		slog.String("category", s.Category.String()),
	)

	format, err := o.awaitFormat(ctx)
	if err != nil {
		return s, err
	}
	s.Format = format

	if err := s.advance(FormatSelected); err != nil {
		return s, err
	}

	return s, o.dispatch(ctx, s)
}

func (o *Orchestrator) awaitURL(ctx context.Context) (string, error) {
	for {
		input, err := o.opts.Prompter.Ask(ctx, URLPrompt)
		if err != nil {
			return "", promptError(err)
		}

		if err := classify.Validate(input); err != nil {
			slog.Debug("rejected url", slog.String("input", input), slog.Any("err", err))
			events.Publish(o.opts.Bus, events.URLInvalid, events.Event{Input: input})
			continue
		}
		return input, nil
	}
}

func (o *Orchestrator) awaitFormat(ctx context.Context) (media.Format, error) {
	for {
		input, err := o.opts.Prompter.Ask(ctx, FormatPrompt)
		if err != nil {
			return 0, promptError(err)
		}

		f, err := media.ParseFormat(input)
		if err != nil {
			events.Publish(o.opts.Bus, events.FormatInvalid, events.Event{Input: input})
			continue
		}
		return f, nil
	}
}

func promptError(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("input closed before an answer was given: %w", err)
	}
	return err
}

func (o *Orchestrator) dispatch(ctx context.Context, s *Session) error {
	if s.state != FormatSelected {
		return fmt.Errorf("session %s: cannot dispatch in state %s", s.ID, s.state)
	}

	h, ok := o.handlers[s.Category]
	if !ok {
		return fmt.Errorf("%w for %s", media.ErrNoHandler, s.Category)
	}

	if err := s.advance(Downloading); err != nil {
		return err
	}
	return h(ctx, s)
}

func (o *Orchestrator) downloadChannel(_ context.Context, s *Session) error {
	events.Publish(o.opts.Bus, events.CategoryRejected, events.Event{URL: s.URL, Category: s.Category, Err: media.ErrNotImplemented})
	return fmt.Errorf("%s downloads: %w", s.Category, media.ErrNotImplemented)
}

func (o *Orchestrator) rejectUnsupported(_ context.Context, s *Session) error {
	events.Publish(o.opts.Bus, events.CategoryRejected, events.Event{URL: s.URL, Category: s.Category, Err: media.ErrUnsupportedCategory})
	return fmt.Errorf("%s: %w", s.URL, media.ErrUnsupportedCategory)
}
