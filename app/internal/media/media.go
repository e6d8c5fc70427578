package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Category is the kind of resource a URL points at.
type Category int

const (
	Unsupported Category = iota
	Single
	Playlist
	Channel
)

func (c Category) String() string {
	switch c {
	case Single:
		return "video"
	case Playlist:
		return "playlist"
	case Channel:
		return "channel"
	default:
		return "unsupported"
	}
}

// Format is what the user asked to retrieve.
type Format int

const (
	Audio Format = iota + 1
	Video
	Both
)

func (f Format) String() string {
	switch f {
	case Audio:
		return "audio"
	case Video:
		return "video"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// ParseFormat accepts "audio", "video" or "both", ignoring case and
// surrounding whitespace.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audio":
		return Audio, nil
	case "video":
		return Video, nil
	case "both":
		return Both, nil
	}
	return 0, fmt.Errorf("%w: %q is not a format", ErrInvalidInput, s)
}

type StreamKind int

const (
	AudioStream StreamKind = iota + 1
	VideoStream
)

func (k StreamKind) String() string {
	if k == AudioStream {
		return "audio"
	}
	return "video"
}

// Container is a file container identified by its canonical extension
// (without the leading dot).
type Container string

const (
	M4A     Container = "m4a"
	MP3     Container = "mp3"
	MP4     Container = "mp4"
	WebM    Container = "webm"
	ThreeGP Container = "3gp"
)

// Ext returns the container extension with its leading dot.
func (c Container) Ext() string { return "." + string(c) }

// ContainerFromPath guesses the container from a file extension.
func ContainerFromPath(path string) Container {
	return Container(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")))
}

// Variant is one downloadable stream of an item.
type Variant struct {
	ID        string // itag or yt-dlp format_id
	Kind      StreamKind
	Container Container
	// HasAudio is set on video variants that also carry an audio track.
	HasAudio bool
	Bitrate  int
	Height   int
	Size     int64
}

// Item is a single downloadable video as returned by a resolver.
type Item struct {
	ID       string
	URL      string
	Title    string
	Author   string
	Variants []Variant
}

// VariantsOf returns the variants of the given kind, in resolver order.
func (i Item) VariantsOf(kind StreamKind) []Variant {
	var out []Variant
	for _, v := range i.Variants {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

// Entry is a playlist member that still has to be resolved into an Item.
type Entry struct {
	ID    string
	URL   string
	Title string
}

type PlaylistInfo struct {
	ID      string
	Title   string
	Entries []Entry
}
