package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/procgroup"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

const downloadTemplate = `download:
{
	"eta":%(progress.eta)s,
	"percentage":"%(progress._percent_str)s",
	"speed":%(progress.speed)s
}`

const postprocessTemplate = `postprocess:
{
	"filepath":"%(info.filepath)s"
}
`

var templateReplacer = strings.NewReplacer("\n", "", "\t", "", " ", "")

// Fetch downloads format v.ID of item into dst.
func (b *Backend) Fetch(ctx context.Context, item media.Item, v media.Variant, dst string) error {
	if _, err := fsutil.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	params := []string{
		strings.Split(item.URL, "&list")[0],
		"-f", v.ID,
		"-o", dst,
		"--newline",
		"--no-colors",
		"--no-playlist",
		"--no-part",
		"--progress-template",
		templateReplacer.Replace(downloadTemplate),
		"--progress-template",
		templateReplacer.Replace(postprocessTemplate),
		"--no-exec",
	}

	params = append(params, withoutOutputFlags(b.ExtraArgs)...)

	slog.Info("requesting download", slog.String("url", item.URL), slog.Any("params", params))

	cmd := exec.CommandContext(ctx, b.Path, params...)
	procgroup.Setup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting yt-dlp: %w", err)
	}

	consumer := newLogConsumer(item.ID, item.URL, b.bar(item, v))

	done := make(chan string, 1)
	go func() { done <- logErrors(stderr, item.ID, item.URL) }()

	consumer.consume(stdout)
	lastErr := <-done

	if err := cmd.Wait(); err != nil {
		consumer.abort()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr != "" {
			return errors.New(lastErr)
		}
		return err
	}

	consumer.complete()

	if consumer.savedPath != "" && consumer.savedPath != dst {
		slog.Warn("yt-dlp saved to an unexpected path",
			slog.String("want", dst),
			slog.String("got", consumer.savedPath),
		)
	}
	return nil
}

func (b *Backend) bar(item media.Item, v media.Variant) *mpb.Bar {
	if b.progress == nil {
		return nil
	}

	name := item.Title
	if r := []rune(name); len(r) > 32 {
		name = string(r[:32])
	}

	return b.progress.AddBar(100,
		mpb.PrependDecorators(decor.Name(fmt.Sprintf("%s (%s/%s)", name, v.Kind, v.Container), decor.WCSyncSpaceR)),
		mpb.AppendDecorators(decor.Percentage()),
	)
}
