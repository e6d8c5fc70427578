package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/plan"
)

// process builds and runs the plan for item and records one outcome for it.
// Only cancellation is returned; every other failure is recorded.
func (o *Orchestrator) process(ctx context.Context, s *Session, item media.Item) error {
	p, err := plan.For(item, s.Format, o.opts.Layout)
	if err != nil {
		o.recordFailure(s, item.ID, item.URL, &media.ItemError{ItemID: item.ID, Op: "plan", Err: err})
		return nil
	}

	var errs []error
	// halves are independent: a failed audio half does not stop the video one
	for _, h := range p.Halves {
		if h.Err != nil {
			errs = append(errs, h.Err)
			continue
		}
		if err := o.runHalf(ctx, s, item, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		o.recordFailure(s, item.ID, item.URL, errors.Join(errs...))
		return nil
	}

	s.Stats.RecordSuccess(s.Category, item.ID)
	return nil
}

func (o *Orchestrator) runHalf(ctx context.Context, s *Session, item media.Item, h plan.Half) error {
	var saved string

	for _, step := range h.Steps {
		switch step.Kind {
		case plan.Fetch:
			slog.Info("fetching stream",
				slog.String("session", s.ID),
				slog.String("id", item.ID),
				slog.String("stream", step.Stream.String()),
				slog.String("variant", step.Variant.ID),
			)
			if err := o.opts.Fetcher.Fetch(ctx, item, step.Variant, step.Path); err != nil {
				return &media.ItemError{ItemID: item.ID, Op: "fetch " + step.Stream.String(), Err: err}
			}
			saved = step.Path

		case plan.Transcode:
			if o.opts.Transcoder == nil {
				return &media.ItemError{ItemID: item.ID, Op: "transcode", Err: media.ErrTranscodeFailed}
			}
			out, err := o.opts.Transcoder.Convert(ctx, step.Source, step.Container)
			if err != nil {
				return &media.ItemError{ItemID: item.ID, Op: "transcode", Err: err}
			}
			if out != step.Path {
				slog.Warn("transcoder wrote to an unexpected path",
					slog.String("want", step.Path),
					slog.String("got", out),
				)
			}
			o.cleanup(step.Source)
			saved = out
		}
	}

	events.Publish(o.opts.Bus, events.ItemSaved, events.Event{ItemID: item.ID, URL: item.URL, Path: saved})
	return nil
}

func (o *Orchestrator) cleanup(raw string) {
	if !o.opts.CleanupRaw {
		return
	}
	if err := os.Remove(raw); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove raw download", slog.String("path", raw), slog.Any("err", err))
	}
}

func (o *Orchestrator) recordFailure(s *Session, id, url string, err error) {
	s.Stats.RecordFailure(s.Category, id)

	slog.Error("download failed",
		slog.String("session", s.ID),
		slog.String("id", id),
		slog.Any("err", err),
	)

	events.Publish(o.opts.Bus, events.ItemFailed, events.Event{ItemID: id, URL: url, Err: err})
}
