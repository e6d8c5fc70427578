package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// scripted answers prompts from a fixed list and records every question.
type scripted struct {
	answers []string
	asked   []string
}

func (p *scripted) Ask(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.asked = append(p.asked, message)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type fakeResolver struct {
	items     map[string]media.Item
	playlists map[string]media.PlaylistInfo

	mu    sync.Mutex
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, url string) (media.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	item, ok := r.items[url]
	if !ok {
		return media.Item{}, fmt.Errorf("video %s unavailable", url)
	}
	return item, nil
}

func (r *fakeResolver) ResolvePlaylist(_ context.Context, url string) (media.PlaylistInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	pl, ok := r.playlists[url]
	if !ok {
		return media.PlaylistInfo{}, errors.New("playlist unavailable")
	}
	return pl, nil
}

type fetchCall struct {
	ItemID  string
	Variant string
	Path    string
}

// fakeFetcher writes the variant id into dst unless the variant is listed in
// fail.
type fakeFetcher struct {
	fail map[string]bool
	hook func(item media.Item)

	mu    sync.Mutex
	calls []fetchCall
}

func (f *fakeFetcher) Fetch(ctx context.Context, item media.Item, v media.Variant, dst string) error {
	if f.hook != nil {
		f.hook(item)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{item.ID, v.ID, dst})
	f.mu.Unlock()

	if f.fail[v.ID] {
		return errors.New("connection reset")
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(v.ID), 0o644)
}

type fakeTranscoder struct {
	outDir string

	mu      sync.Mutex
	sources []string
}

func (t *fakeTranscoder) Convert(_ context.Context, src string, target media.Container) (string, error) {
	t.mu.Lock()
	t.sources = append(t.sources, src)
	t.mu.Unlock()

	if media.ContainerFromPath(src) != media.M4A || target != media.MP3 {
		return "", fmt.Errorf("%w: cannot convert %s", media.ErrTranscodeFailed, src)
	}
	return fsutil.SwapExt(t.outDir, src, target.Ext()), nil
}

// recorder keeps every event published on a bus.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func record(bus events.Bus) *recorder {
	r := &recorder{}
	for _, topic := range events.Topics {
		bus.Subscribe(topic, func(e events.Event) {
			r.mu.Lock()
			r.events = append(r.events, e)
			r.mu.Unlock()
		})
	}
	return r
}

func (r *recorder) topic(topic string) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []events.Event
	for _, e := range r.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

// sequence returns "topic:item" for every recorded event on the given
// topics, in publication order.
func (r *recorder) sequence(topics ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		for _, topic := range topics {
			if e.Topic == topic {
				out = append(out, e.Topic+":"+e.ItemID)
			}
		}
	}
	return out
}

var (
	m4a = media.Variant{ID: "140", Kind: media.AudioStream, Container: media.M4A, Bitrate: 128000}
	mp4 = media.Variant{ID: "18", Kind: media.VideoStream, Container: media.MP4, HasAudio: true, Height: 360}
)

func video(id string, variants ...media.Variant) media.Item {
	return media.Item{
		ID:       id,
		URL:      "https://www.youtube.com/watch?v=" + id,
		Title:    "title " + id,
		Variants: variants,
	}
}
