package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/procgroup"
)

// the only conversion supported
const (
	sourceContainer = media.M4A
	targetContainer = media.MP3
)

type FFmpeg struct {
	Path   string
	OutDir string
	// Args are the encoder arguments placed between input and output.
	Args []string
}

func NewFFmpeg(path, outDir string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{
		Path:   path,
		OutDir: outDir,
		Args:   []string{"-acodec", "libmp3lame", "-ab", "256k"},
	}
}

func (f *FFmpeg) Name() string { return "ffmpeg-transcoder" }

// Available reports whether the ffmpeg binary can be found.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// OutputPath is where Convert writes the converted version of src.
func (f *FFmpeg) OutputPath(src string, target media.Container) string {
	return fsutil.SwapExt(f.OutDir, src, target.Ext())
}

// Convert writes an mp3 copy of the m4a file at src into OutDir. Any other
// pairing fails with media.ErrTranscodeFailed without starting ffmpeg.
func (f *FFmpeg) Convert(ctx context.Context, src string, target media.Container) (string, error) {
	if from := media.ContainerFromPath(src); from != sourceContainer || target != targetContainer {
		return "", fmt.Errorf("%w: cannot convert %s to %s", media.ErrTranscodeFailed, from, target)
	}

	if _, err := fsutil.EnsureDir(f.OutDir); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrTranscodeFailed, err)
	}

	dst := f.OutputPath(src, target)

	args := append([]string{"-hide_banner", "-nostdin", "-i", src}, f.Args...)
	args = append(args, "-y", dst)

	cmd := exec.CommandContext(ctx, f.Path, args...)
	procgroup.Setup(cmd)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", err
	}

	slog.Info("transcoding", slog.String("src", src), slog.String("dst", dst))

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrTranscodeFailed, err)
	}

	last := make(chan string, 1)
	go func() { last <- logOutput(stderr) }()

	lastLine := <-last

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v: %s", media.ErrTranscodeFailed, err, lastLine)
	}

	return dst, nil
}

// ffmpeg rewrites its progress line with '\r', split on both.
func logOutput(r io.Reader) string {
	var (
		reader = bufio.NewReader(r)
		last   string
	)

	for {
		part, err := reader.ReadString('\r')

		for _, l := range strings.Split(part, "\n") {
			if l = strings.TrimRight(l, "\r"); l != "" {
				slog.Debug("ffmpeg transcoder", slog.String("log", l))
				last = l
			}
		}

		if err != nil {
			return last
		}
	}
}
