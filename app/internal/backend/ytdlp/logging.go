package ytdlp

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vbauerster/mpb/v8"
)

type progressLine struct {
	Percentage string  `json:"percentage"`
	Speed      float64 `json:"speed"`
	Eta        float64 `json:"eta"`
}

type postprocessLine struct {
	FilePath string `json:"filepath"`
}

// logConsumer turns the JSON lines printed through --progress-template into
// log records and progress bar updates.
type logConsumer struct {
	id  string
	url string
	bar *mpb.Bar

	percentage float64
	savedPath  string
}

func newLogConsumer(id, url string, bar *mpb.Bar) *logConsumer {
	return &logConsumer{id: id, url: url, bar: bar}
}

func (c *logConsumer) consume(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		c.parseLogEntry(scanner.Bytes())
	}
}

func (c *logConsumer) parseLogEntry(entry []byte) {
	var (
		progress    progressLine
		postprocess postprocessLine
	)

	if err := json.Unmarshal(entry, &progress); err == nil && progress.Percentage != "" {
		if p, ok := parsePercentage(progress.Percentage); ok {
			c.percentage = p
			if c.bar != nil {
				c.bar.SetCurrent(int64(p))
			}
		}

		slog.Debug("progress",
			slog.String("id", c.id),
			slog.String("url", c.url),
			slog.String("percentage", strings.TrimSpace(progress.Percentage)),
		)
		return
	}

	if err := json.Unmarshal(entry, &postprocess); err == nil && postprocess.FilePath != "" {
		c.savedPath = postprocess.FilePath
		return
	}

	slog.Debug("yt-dlp output", slog.String("id", c.id), slog.String("output", string(entry)))
}

func (c *logConsumer) complete() {
	if c.bar != nil {
		c.bar.SetTotal(-1, true)
	}
}

func (c *logConsumer) abort() {
	if c.bar != nil {
		c.bar.Abort(true)
	}
}

// parsePercentage reads values like " 42.1%".
func parsePercentage(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

// logErrors reports yt-dlp stderr line by line and returns the last error
// line seen.
func logErrors(r io.Reader, id, url string) string {
	var last string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "WARNING") {
			slog.Warn("yt-dlp process warning", slog.String("id", id), slog.String("url", url), slog.String("msg", line))
			continue
		}
		slog.Error("yt-dlp process error",
			slog.String("id", id),
			slog.String("url", url),
			slog.String("err", line),
		)
		if strings.HasPrefix(line, "ERROR") || last == "" {
			last = line
		}
	}
	return last
}
