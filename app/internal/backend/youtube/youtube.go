// Package youtube resolves and downloads media natively through
// github.com/kkdai/youtube, without any external program.
package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/kkdai/youtube/v2"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/vbauerster/mpb/v8"
)

// Client is the subset of *youtube.Client used here.
type Client interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

var _ Client = (*youtube.Client)(nil)

type Backend struct {
	client   Client
	progress *mpb.Progress

	// videos resolved so far, fetching reuses them instead of asking again
	videos map[string]*youtube.Video
	mu     sync.Mutex
}

// New builds a backend over a kkdai client. progress may be nil to disable
// the per stream progress bars.
func New(httpClient *http.Client, progress *mpb.Progress) *Backend {
	return NewWithClient(&youtube.Client{HTTPClient: httpClient}, progress)
}

func NewWithClient(c Client, progress *mpb.Progress) *Backend {
	return &Backend{
		client:   c,
		progress: progress,
		videos:   make(map[string]*youtube.Video),
	}
}

func (b *Backend) Name() string { return "youtube" }

func (b *Backend) Resolve(ctx context.Context, url string) (media.Item, error) {
	slog.Info("retrieving metadata", slog.String("url", url))

	v, err := b.client.GetVideoContext(ctx, url)
	if err != nil {
		return media.Item{}, fmt.Errorf("fetching video: %w", err)
	}

	b.mu.Lock()
	b.videos[v.ID] = v
	b.mu.Unlock()

	return itemFromVideo(v), nil
}

func (b *Backend) ResolvePlaylist(ctx context.Context, url string) (media.PlaylistInfo, error) {
	slog.Info("decoding playlist metadata", slog.String("url", url))

	p, err := b.client.GetPlaylistContext(ctx, url)
	if err != nil {
		return media.PlaylistInfo{}, fmt.Errorf("fetching playlist: %w", err)
	}

	pl := media.PlaylistInfo{ID: p.ID, Title: p.Title}
	seen := make(map[string]struct{}, len(p.Videos))

	for _, e := range p.Videos {
		if e == nil || e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}

		pl.Entries = append(pl.Entries, media.Entry{
			ID:    e.ID,
			URL:   watchURL(e.ID),
			Title: e.Title,
		})
	}

	slog.Info("playlist detected", slog.String("url", url), slog.Int("count", len(pl.Entries)))

	return pl, nil
}

func (b *Backend) video(ctx context.Context, item media.Item) (*youtube.Video, error) {
	b.mu.Lock()
	v, ok := b.videos[item.ID]
	b.mu.Unlock()

	if ok {
		return v, nil
	}

	v, err := b.client.GetVideoContext(ctx, item.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching video: %w", err)
	}
	return v, nil
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

func itemFromVideo(v *youtube.Video) media.Item {
	item := media.Item{
		ID:     v.ID,
		URL:    watchURL(v.ID),
		Title:  v.Title,
		Author: v.Author,
	}

	for _, f := range v.Formats {
		variant, ok := variantFromFormat(f)
		if !ok {
			continue
		}
		item.Variants = append(item.Variants, variant)
	}

	return item
}

func variantFromFormat(f youtube.Format) (media.Variant, bool) {
	mime := strings.ToLower(f.MimeType)

	v := media.Variant{
		ID:        strconv.Itoa(f.ItagNo),
		Container: containerFromMime(mime),
		Bitrate:   bitrate(f),
		Height:    f.Height,
		Size:      f.ContentLength,
	}

	switch {
	case strings.HasPrefix(mime, "audio/"):
		v.Kind = media.AudioStream
	case strings.HasPrefix(mime, "video/"):
		v.Kind = media.VideoStream
		v.HasAudio = f.AudioChannels > 0
	default:
		return media.Variant{}, false
	}

	if v.Container == "" {
		return media.Variant{}, false
	}

	return v, true
}

func containerFromMime(mime string) media.Container {
	base, _, _ := strings.Cut(mime, ";")

	switch strings.TrimSpace(base) {
	case "audio/mp4":
		return media.M4A
	case "audio/mpeg":
		return media.MP3
	case "audio/webm", "video/webm":
		return media.WebM
	case "video/mp4":
		return media.MP4
	case "video/3gpp":
		return media.ThreeGP
	}
	return ""
}

func bitrate(f youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}
