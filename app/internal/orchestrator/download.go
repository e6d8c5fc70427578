package orchestrator

import (
	"context"
	"log/slog"

	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"golang.org/x/sync/errgroup"
)

func (o *Orchestrator) downloadSingle(ctx context.Context, s *Session) error {
	events.Publish(o.opts.Bus, events.DownloadStarted, events.Event{URL: s.URL, Format: s.Format})

	item, err := o.opts.Resolver.Resolve(ctx, s.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.recordFailure(s, s.URL, s.URL, &media.ItemError{ItemID: s.URL, Op: "resolve", Err: err})
		return nil
	}

	return o.process(ctx, s, item)
}

func (o *Orchestrator) downloadPlaylist(ctx context.Context, s *Session) error {
	pl, err := o.opts.Resolver.ResolvePlaylist(ctx, s.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.recordFailure(s, s.URL, s.URL, &media.ItemError{ItemID: s.URL, Op: "resolve playlist", Err: err})
		return nil
	}

	total := len(pl.Entries)
	events.Publish(o.opts.Bus, events.PlaylistStarted, events.Event{URL: s.URL, Title: pl.Title, Total: total})

	slog.Info("downloading playlist",
		slog.String("session", s.ID),
		slog.String("title", pl.Title),
		slog.Int("count", total),
	)

	// one at a time: each item finishes before the next one is announced
	if o.opts.Concurrency <= 1 {
		for i, entry := range pl.Entries {
			if ctx.Err() != nil {
				break
			}
			o.publishProgress(entry, i, total)
			if err := o.processEntry(ctx, s, entry); err != nil {
				return err
			}
		}
		return ctx.Err()
	}

	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)

	for i, entry := range pl.Entries {
		if ctx.Err() != nil {
			break
		}

		// published before scheduling so the order holds in parallel mode too
		o.publishProgress(entry, i, total)

		entry := entry
		g.Go(func() error { return o.processEntry(ctx, s, entry) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (o *Orchestrator) publishProgress(entry media.Entry, i, total int) {
	events.Publish(o.opts.Bus, events.ItemProgress, events.Event{
		URL:    entry.URL,
		ItemID: entry.ID,
		Index:  i + 1,
		Total:  total,
	})
}

// processEntry resolves one playlist entry and runs it. Only cancellation is
// returned.
func (o *Orchestrator) processEntry(ctx context.Context, s *Session, entry media.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	item, err := o.opts.Resolver.Resolve(ctx, entry.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		o.recordFailure(s, entry.ID, entry.URL, &media.ItemError{ItemID: entry.ID, Op: "resolve", Err: err})
		return nil
	}
	return o.process(ctx, s, item)
}
