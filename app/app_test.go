package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/marcopiovanello/yt-media-dl/app/config"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/prompt"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{fmt.Errorf("%w: 1 of 3", media.ErrItemsFailed), 1},
		{errors.New("boom"), 1},
		{fmt.Errorf("channel downloads: %w", media.ErrNotImplemented), 2},
		{media.ErrUnsupportedCategory, 2},
		{context.Canceled, 130},
		{prompt.ErrInterrupted, 130},
	}

	for _, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("ExitCode(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

const videoJSON = `{"_type":"video","id":"jNQXAC9IVRw","title":"Me at the zoo",` +
	`"webpage_url":"https://www.youtube.com/watch?v=jNQXAC9IVRw",` +
	`"formats":[{"format_id":"18","ext":"mp4","acodec":"mp4a.40.2","vcodec":"avc1","tbr":300,"height":360}]}`

// runWith configures the shared config for a yt-dlp stub, feeds answers on
// stdin and returns Run's error with everything printed on stdout.
func runWith(t *testing.T, answers ...string) (string, string, error) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stub needs a unix shell")
	}
	color.NoColor = true

	dir := t.TempDir()
	body := filepath.Join(dir, "video.json")
	if err := os.WriteFile(body, []byte(videoJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	stub := filepath.Join(dir, "yt-dlp")
	script := "#!/bin/sh\n" +
		"out=''\nprev=''\n" +
		"for a; do if [ \"$prev\" = '-o' ]; then out=\"$a\"; fi; prev=\"$a\"; done\n" +
		"if [ -n \"$out\" ]; then echo video > \"$out\"; exit 0; fi\n" +
		"cat '" + body + "'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	downloads := filepath.Join(dir, "downloads")
	conf := config.Instance()
	*conf = config.Config{}
	conf.Logging.Level = "error"
	conf.Paths.DownloadPath = downloads
	conf.Paths.DownloaderPath = stub
	conf.Paths.FFmpegPath = filepath.Join(dir, "no-ffmpeg")
	conf.Resolver.Backend = config.BackendYtDlp
	conf.Download.Concurrency = 1

	stdin := filepath.Join(dir, "stdin")
	if err := os.WriteFile(stdin, []byte(strings.Join(answers, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := os.Open(stdin)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(dir, "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()

	errOut, err := os.Create(filepath.Join(dir, "stderr"))
	if err != nil {
		t.Fatal(err)
	}
	defer errOut.Close()

	runErr := Run(context.Background(), &RunConfig{Stdin: in, Stdout: out, Stderr: errOut})

	printed, err := os.ReadFile(out.Name())
	if err != nil {
		t.Fatal(err)
	}
	return string(printed), downloads, runErr
}

func TestRun_SingleVideo(t *testing.T) {
	out, downloads, err := runWith(t, "https://www.youtube.com/watch?v=jNQXAC9IVRw", "video")
	if err != nil {
		t.Fatalf("Run() error = %v\n%s", err, out)
	}

	for _, want := range []string{
		"URL is detected to be a video",
		"Downloading the video from https://www.youtube.com/watch?v=jNQXAC9IVRw",
		"Succeeded: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(downloads, "Me at the zoo.mp4")); err != nil {
		t.Fatalf("video not saved: %v", err)
	}
}

func TestRun_AudioWithoutAudioStreamFails(t *testing.T) {
	// the only variant is muxed video, so there is no audio stream to fetch
	out, _, err := runWith(t, "https://www.youtube.com/watch?v=jNQXAC9IVRw", "audio")
	if !errors.Is(err, media.ErrItemsFailed) {
		t.Fatalf("Run() error = %v, want ErrItemsFailed", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("ExitCode() = %d, want 1", ExitCode(err))
	}
	if !strings.Contains(out, "Download failed for") {
		t.Fatalf("failure not reported:\n%s", out)
	}
}

func TestRun_UnsupportedIsReportedOnce(t *testing.T) {
	out, _, err := runWith(t, "https://www.youtube.com/feed/trending", "audio")
	if !errors.Is(err, media.ErrUnsupportedCategory) || ExitCode(err) != 2 {
		t.Fatalf("Run() error = %v, exit %d, want 2", err, ExitCode(err))
	}
	if !strings.Contains(out, "Error: Unknown media type!") {
		t.Fatalf("output = %s", out)
	}
	if strings.Contains(out, "not supported") {
		t.Fatalf("unsupported URL reported twice:\n%s", out)
	}
}

func TestRun_ChannelIsRejected(t *testing.T) {
	out, _, err := runWith(t, "https://www.youtube.com/channel/UC123", "both")
	if ExitCode(err) != 2 {
		t.Fatalf("Run() error = %v, exit %d, want 2", err, ExitCode(err))
	}
	if !strings.Contains(out, "channel downloads are currently not supported: not implemented.") {
		t.Fatalf("output = %s", out)
	}
}
