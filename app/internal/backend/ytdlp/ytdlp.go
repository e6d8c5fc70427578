// Package ytdlp resolves and downloads media by driving a yt-dlp executable.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/procgroup"
	"github.com/vbauerster/mpb/v8"
)

type Backend struct {
	// Path of the yt-dlp executable.
	Path string
	// ExtraArgs are appended to every invocation after sanitizing.
	ExtraArgs []string

	progress *mpb.Progress
}

func New(path string, extraArgs []string, progress *mpb.Progress) *Backend {
	if path == "" {
		path = "yt-dlp"
	}
	return &Backend{
		Path:      path,
		ExtraArgs: argsSanitizer(extraArgs),
		progress:  progress,
	}
}

func (b *Backend) Name() string { return "ytdlp" }

func (b *Backend) Resolve(ctx context.Context, url string) (media.Item, error) {
	slog.Info("retrieving metadata", slog.String("url", url))

	var m Metadata
	if err := b.decode(ctx, &m, url, "-J", "--no-playlist"); err != nil {
		return media.Item{}, err
	}
	if m.ID == "" {
		return media.Item{}, errors.New("probably not a valid URL")
	}

	return m.Item(), nil
}

func (b *Backend) ResolvePlaylist(ctx context.Context, url string) (media.PlaylistInfo, error) {
	slog.Info("decoding playlist metadata", slog.String("url", url))

	var m Metadata
	if err := b.decode(ctx, &m, url, "--flat-playlist", "-J"); err != nil {
		return media.PlaylistInfo{}, err
	}

	slog.Info("decoded playlist metadata", slog.String("url", url))

	if m.Type == "" {
		return media.PlaylistInfo{}, errors.New("probably not a valid URL")
	}
	if !m.IsPlaylist() {
		return media.PlaylistInfo{}, fmt.Errorf("%s is a %s, not a playlist", url, m.Type)
	}

	pl := m.Playlist()

	slog.Info("playlist detected", slog.String("url", url), slog.Int("count", len(pl.Entries)))

	return pl, nil
}

// decode runs yt-dlp with url and args and decodes its stdout into v. On a
// non zero exit the captured stderr becomes the error.
func (b *Backend) decode(ctx context.Context, v any, url string, args ...string) error {
	params := append([]string{url}, args...)
	params = append(params, b.ExtraArgs...)

	cmd := exec.CommandContext(ctx, b.Path, params...)
	procgroup.Setup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	decodeErr := json.NewDecoder(stdout).Decode(v)
	if decodeErr != nil {
		// drain so yt-dlp does not block on a full pipe
		io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	return decodeErr
}
