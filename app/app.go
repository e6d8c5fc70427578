// Package app wires configuration, logging, the media backends and the
// console into one interactive download run.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/marcopiovanello/yt-media-dl/app/config"
	"github.com/marcopiovanello/yt-media-dl/app/internal/backend"
	"github.com/marcopiovanello/yt-media-dl/app/internal/backend/youtube"
	"github.com/marcopiovanello/yt-media-dl/app/internal/backend/ytdlp"
	"github.com/marcopiovanello/yt-media-dl/app/internal/console"
	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/orchestrator"
	"github.com/marcopiovanello/yt-media-dl/app/internal/plan"
	"github.com/marcopiovanello/yt-media-dl/app/internal/prompt"
	"github.com/marcopiovanello/yt-media-dl/app/internal/transcode"
	"github.com/marcopiovanello/yt-media-dl/app/logging"
	"github.com/marcopiovanello/yt-media-dl/app/updater"
	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
)

type RunConfig struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Run performs one interactive session using config.Instance(). It returns
// media.ErrItemsFailed wrapped when the run finished but some item failed.
func Run(ctx context.Context, rc *RunConfig) error {
	conf := config.Instance()

	// ---- LOGGING ---------------------------------------------------
	closer, err := logging.Setup(rc.Stderr, conf.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Debug("effective config", slog.String("path", conf.Path()), slog.String("config", conf.Dump()))
	// ----------------------------------------------------------------

	base, err := fsutil.ExpandHome(conf.Paths.DownloadPath)
	if err != nil {
		return err
	}
	layout := plan.NewLayout(base)

	if _, err := fsutil.EnsureDir(layout.BaseDir); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	warnLowSpace(layout.BaseDir)

	bus := events.NewBus()
	if err := console.NewReporter(rc.Stdout).Attach(bus); err != nil {
		return err
	}

	// bars go to stderr so they never tear the console lines on stdout
	var progress *mpb.Progress
	if conf.Download.ProgressBars && isatty.IsTerminal(rc.Stderr.Fd()) {
		progress = mpb.NewWithContext(ctx, mpb.WithOutput(rc.Stderr), mpb.WithWidth(64))
	}

	be := newBackend(ctx, conf, progress)

	ffmpeg := transcode.NewFFmpeg(conf.Paths.FFmpegPath, layout.ConvertedDir)
	if !ffmpeg.Available() {
		slog.Warn("ffmpeg not found, audio conversion will fail", slog.String("path", ffmpeg.Path))
	}

	o := orchestrator.New(orchestrator.Options{
		Resolver:    be,
		Fetcher:     be,
		Transcoder:  ffmpeg,
		Prompter:    prompt.New(rc.Stdin, rc.Stdout),
		Bus:         bus,
		Layout:      layout,
		Concurrency: conf.Download.Concurrency,
		CleanupRaw:  conf.Download.CleanupRaw,
	})

	s, runErr := o.Run(ctx)

	if progress != nil {
		progress.Wait()
	}

	summary := s.Stats.Summary()
	console.PrintSummary(rc.Stdout, summary)

	slog.Info("run finished",
		slog.String("session", s.ID),
		slog.String("backend", be.Name()),
		slog.Int("succeeded", len(summary.Succeeded)),
		slog.Int("failed", len(summary.Failed)),
	)

	if runErr != nil {
		switch ExitCode(runErr) {
		case 1:
			slog.Error("run failed", slog.String("session", s.ID), slog.Any("err", runErr))
		case 2:
			slog.Warn("download rejected", slog.String("session", s.ID), slog.Any("err", runErr))
		}
		return runErr
	}

	if s.Stats.HasFailures() {
		return fmt.Errorf("%w: %d of %d", media.ErrItemsFailed, len(summary.Failed), summary.Total())
	}
	return nil
}

const lowSpace = 1 << 30

func warnLowSpace(dir string) {
	free, err := fsutil.FreeSpace(dir)
	if err != nil {
		slog.Debug("cannot read free space", slog.String("path", dir), slog.Any("err", err))
		return
	}
	if free < lowSpace {
		slog.Warn("download directory is almost full",
			slog.String("path", dir),
			slog.Uint64("free", free),
		)
	}
}

func newBackend(ctx context.Context, conf *config.Config, progress *mpb.Progress) backend.Backend {
	if conf.Resolver.Backend == config.BackendYtDlp {
		if conf.YtDlp.AutoUpdate {
			if err := updater.UpdateExecutable(ctx, conf.Paths.DownloaderPath); err != nil {
				slog.Warn("yt-dlp update failed", slog.Any("err", err))
			}
		}
		return ytdlp.New(conf.Paths.DownloaderPath, conf.YtDlp.ExtraArgs, progress)
	}

	return youtube.New(&http.Client{Timeout: conf.HTTP.Timeout}, progress)
}

// ExitCode maps the error returned by Run onto the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, prompt.ErrInterrupted):
		return 130
	case errors.Is(err, media.ErrNotImplemented), errors.Is(err, media.ErrUnsupportedCategory):
		return 2
	}
	return 1
}
