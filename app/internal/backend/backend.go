// Package backend defines what the orchestrator needs from a media source.
package backend

import (
	"context"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// Resolver turns URLs into items and playlists.
type Resolver interface {
	Resolve(ctx context.Context, url string) (media.Item, error)
	ResolvePlaylist(ctx context.Context, url string) (media.PlaylistInfo, error)
}

// Fetcher downloads one variant of an item to dst.
type Fetcher interface {
	Fetch(ctx context.Context, item media.Item, v media.Variant, dst string) error
}

// Backend is a source that can do both.
type Backend interface {
	Resolver
	Fetcher
	Name() string
}
