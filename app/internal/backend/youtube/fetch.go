package youtube

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/kkdai/youtube/v2"
	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Fetch streams the format with itag v.ID into dst.
func (b *Backend) Fetch(ctx context.Context, item media.Item, v media.Variant, dst string) error {
	video, err := b.video(ctx, item)
	if err != nil {
		return err
	}

	format, err := findFormat(video, v.ID)
	if err != nil {
		return err
	}

	stream, size, err := b.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("opening stream %s: %w", v.ID, err)
	}
	defer stream.Close()

	var (
		r   io.Reader = stream
		bar *mpb.Bar
	)

	if b.progress != nil && size > 0 {
		bar = b.progress.AddBar(size,
			mpb.PrependDecorators(decor.Name(barName(item, v), decor.WCSyncSpaceR)),
			mpb.AppendDecorators(decor.CountersKibiByte("% .1f / % .1f")),
		)
		r = bar.ProxyReader(stream)
	}

	slog.Info("downloading stream",
		slog.String("id", item.ID),
		slog.String("itag", v.ID),
		slog.String("path", dst),
	)

	n, err := fsutil.WriteFile(dst, r)
	if bar != nil {
		if err != nil {
			bar.Abort(true)
		} else {
			bar.SetTotal(-1, true)
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("writing %s: %w", dst, err)
	}

	slog.Info("stream saved", slog.String("path", dst), slog.Int64("bytes", n))

	return nil
}

func findFormat(v *youtube.Video, id string) (*youtube.Format, error) {
	itag, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("%w: bad itag %q", media.ErrNoStreamAvailable, id)
	}

	for i := range v.Formats {
		if v.Formats[i].ItagNo == itag {
			return &v.Formats[i], nil
		}
	}
	return nil, fmt.Errorf("%w: itag %d not offered for %s", media.ErrNoStreamAvailable, itag, v.ID)
}

func barName(item media.Item, v media.Variant) string {
	name := item.Title
	if name == "" {
		name = item.ID
	}
	if r := []rune(name); len(r) > 32 {
		name = string(r[:32])
	}
	return fmt.Sprintf("%s (%s/%s)", name, v.Kind, v.Container)
}
