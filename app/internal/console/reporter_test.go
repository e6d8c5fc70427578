package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/marcopiovanello/yt-media-dl/app/internal/events"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/stats"
)

func init() { color.NoColor = true }

func TestReporterMessages(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewBus()
	if err := NewReporter(&buf).Attach(bus); err != nil {
		t.Fatal(err)
	}

	events.Publish(bus, events.URLInvalid, events.Event{Input: "nope"})
	events.Publish(bus, events.URLClassified, events.Event{Category: media.Playlist})
	events.Publish(bus, events.FormatInvalid, events.Event{Input: "flac"})
	events.Publish(bus, events.PlaylistStarted, events.Event{Total: 3, Title: "Mix"})
	events.Publish(bus, events.ItemProgress, events.Event{Index: 1, Total: 3})
	events.Publish(bus, events.ItemFailed, events.Event{URL: "https://youtu.be/b", Err: media.ErrNoStreamAvailable})
	events.Publish(bus, events.URLClassified, events.Event{Category: media.Unsupported})
	events.Publish(bus, events.CategoryRejected, events.Event{Category: media.Unsupported, Err: media.ErrUnsupportedCategory})
	events.Publish(bus, events.CategoryRejected, events.Event{Category: media.Channel, Err: media.ErrNotImplemented})
	events.Publish(bus, events.DownloadStarted, events.Event{Format: media.Audio, URL: "https://youtu.be/a"})

	want := []string{
		"That is not a valid YouTube URL. Please try again.",
		"URL is detected to be a playlist",
		"flac is not a valid format.",
		"Downloading 3 items from Mix",
		"Downloading 1 / 3.",
		"Download failed for https://youtu.be/b: no stream available",
		"Error: Unknown media type!",
		"channel downloads are currently not supported: not implemented.",
		"Downloading the audio from https://youtu.be/a",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("console output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintSummary(t *testing.T) {
	tr := stats.New()
	tr.RecordSuccess(media.Playlist, "a")
	tr.RecordFailure(media.Playlist, "b")
	tr.RecordSuccess(media.Playlist, "c")

	var buf bytes.Buffer
	PrintSummary(&buf, tr.Summary())

	out := buf.String()
	for _, want := range []string{"playlist", "3", "Succeeded: 2", "Failed: b"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintSummary_EmptyRun(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, stats.New().Summary())
	if buf.Len() != 0 {
		t.Fatalf("summary for empty run = %q", buf.String())
	}
}

func TestUnsupportedIsReportedOnce(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewBus()
	if err := NewReporter(&buf).Attach(bus); err != nil {
		t.Fatal(err)
	}

	events.Publish(bus, events.URLClassified, events.Event{URL: "https://www.youtube.com/feed/trending", Category: media.Unsupported})
	events.Publish(bus, events.CategoryRejected, events.Event{URL: "https://www.youtube.com/feed/trending", Category: media.Unsupported, Err: media.ErrUnsupportedCategory})

	if got := buf.String(); got != "Error: Unknown media type!\n" {
		t.Fatalf("console output = %q", got)
	}
}

func TestCategoryRejectedWithoutCause(t *testing.T) {
	_, msg := render(events.Event{Topic: events.CategoryRejected, Category: media.Channel})
	if msg != "channel downloads are currently not supported." {
		t.Fatalf("render() = %q", msg)
	}
}

func TestItemFailedFallsBackToID(t *testing.T) {
	_, msg := render(events.Event{Topic: events.ItemFailed, ItemID: "abc", Err: errors.New("boom")})
	if msg != "Download failed for abc: boom" {
		t.Fatalf("render() = %q", msg)
	}
}
