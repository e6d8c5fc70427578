// Package plan turns a resolved item and the requested format into the
// ordered fetch and transcode steps needed to produce the files on disk.
package plan

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/marcopiovanello/yt-media-dl/app/internal/fsutil"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// TargetAudio is the only container audio is converted to.
const TargetAudio = media.MP3

// Layout says where downloaded and converted files go.
type Layout struct {
	BaseDir      string
	ConvertedDir string
}

func NewLayout(base string) Layout {
	return Layout{
		BaseDir:      base,
		ConvertedDir: filepath.Join(base, string(TargetAudio)),
	}
}

type StepKind int

const (
	Fetch StepKind = iota + 1
	Transcode
)

func (k StepKind) String() string {
	if k == Fetch {
		return "fetch"
	}
	return "transcode"
}

// Step is one action of a plan. Fetch steps download Variant to Path;
// transcode steps convert Source into Container, producing Path.
type Step struct {
	Kind      StepKind
	Stream    media.StreamKind
	Variant   media.Variant
	Container media.Container
	Source    string
	Path      string
}

// Half is the independent part of a plan producing one stream kind. Err is
// set instead of Steps when the item has no variant of that kind.
type Half struct {
	Stream media.StreamKind
	Steps  []Step
	Err    error
}

type Plan struct {
	ItemID string
	Format media.Format
	Halves []Half
}

// Steps returns every step of the plan in execution order.
func (p Plan) Steps() []Step {
	var out []Step
	for _, h := range p.Halves {
		out = append(out, h.Steps...)
	}
	return out
}

// For builds the plan for item. Audio and Video fail with
// media.ErrNoStreamAvailable when the item lacks that stream kind. Both only
// fails when neither kind is available; a single missing kind is reported on
// its Half so the other half can still run.
func For(item media.Item, format media.Format, layout Layout) (Plan, error) {
	p := Plan{ItemID: item.ID, Format: format}

	switch format {
	case media.Audio:
		h := audioHalf(item, layout)
		if h.Err != nil {
			return Plan{}, h.Err
		}
		p.Halves = []Half{h}
	case media.Video:
		h := videoHalf(item, layout)
		if h.Err != nil {
			return Plan{}, h.Err
		}
		p.Halves = []Half{h}
	case media.Both:
		a, v := audioHalf(item, layout), videoHalf(item, layout)
		if a.Err != nil && v.Err != nil {
			return Plan{}, errors.Join(a.Err, v.Err)
		}
		p.Halves = []Half{a, v}
	default:
		return Plan{}, fmt.Errorf("%w: unknown format %d", media.ErrInvalidInput, format)
	}

	return p, nil
}

func audioHalf(item media.Item, layout Layout) Half {
	v, ok := BestAudio(item)
	if !ok {
		return Half{Stream: media.AudioStream, Err: noStream(item, media.AudioStream)}
	}

	raw := rawPath(item, v, layout)
	// webm or mp4 audio would land on the same name as the video file
	if sharedContainers[v.Container] {
		raw = withSuffix(raw, ".audio")
	}

	h := Half{
		Stream: media.AudioStream,
		Steps: []Step{{
			Kind:      Fetch,
			Stream:    media.AudioStream,
			Variant:   v,
			Container: v.Container,
			Path:      raw,
		}},
	}

	if v.Container != TargetAudio {
		h.Steps = append(h.Steps, Step{
			Kind:      Transcode,
			Stream:    media.AudioStream,
			Container: TargetAudio,
			Source:    raw,
			Path:      fsutil.SwapExt(layout.ConvertedDir, raw, TargetAudio.Ext()),
		})
	}

	return h
}

func videoHalf(item media.Item, layout Layout) Half {
	v, ok := BestVideo(item)
	if !ok {
		return Half{Stream: media.VideoStream, Err: noStream(item, media.VideoStream)}
	}

	return Half{
		Stream: media.VideoStream,
		Steps: []Step{{
			Kind:      Fetch,
			Stream:    media.VideoStream,
			Variant:   v,
			Container: v.Container,
			Path:      rawPath(item, v, layout),
		}},
	}
}

var sharedContainers = map[media.Container]bool{
	media.MP4:     true,
	media.WebM:    true,
	media.ThreeGP: true,
}

func rawPath(item media.Item, v media.Variant, layout Layout) string {
	name := item.Title
	if name == "" {
		name = item.ID
	}
	return filepath.Join(layout.BaseDir, fsutil.SanitizeFilename(name)+v.Container.Ext())
}

func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + suffix + ext
}

func noStream(item media.Item, kind media.StreamKind) error {
	return fmt.Errorf("%w: no %s variant for %s", media.ErrNoStreamAvailable, kind, item.ID)
}
