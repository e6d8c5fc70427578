package ytdlp

import (
	"slices"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// Format is one entry of the "formats" array printed by `yt-dlp -J`.
type Format struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	ACodec         string  `json:"acodec"`
	VCodec         string  `json:"vcodec"`
	ABR            float64 `json:"abr"`
	TBR            float64 `json:"tbr"`
	Height         int     `json:"height"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// Metadata is the subset of the yt-dlp info dict that is used. It covers both
// single videos and flat playlists.
type Metadata struct {
	Type          string     `json:"_type"`
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Uploader      string     `json:"uploader"`
	Channel       string     `json:"channel"`
	URL           string     `json:"url"`
	WebpageURL    string     `json:"webpage_url"`
	PlaylistTitle string     `json:"playlist_title"`
	Formats       []Format   `json:"formats"`
	Entries       []Metadata `json:"entries"`
}

func (m Metadata) IsPlaylist() bool { return m.Type == "playlist" }

func (m Metadata) itemURL() string {
	switch {
	case m.WebpageURL != "":
		return m.WebpageURL
	case m.URL != "":
		return m.URL
	}
	return "https://www.youtube.com/watch?v=" + m.ID
}

func (m Metadata) Item() media.Item {
	item := media.Item{
		ID:     m.ID,
		URL:    m.itemURL(),
		Title:  m.Title,
		Author: m.Uploader,
	}
	if item.Author == "" {
		item.Author = m.Channel
	}

	for _, f := range m.Formats {
		if v, ok := f.Variant(); ok {
			item.Variants = append(item.Variants, v)
		}
	}
	return item
}

// Playlist flattens the entries into a playlist. Duplicates are compacted by
// URL and nested playlists are dropped.
func (m Metadata) Playlist() media.PlaylistInfo {
	entries := slices.CompactFunc(slices.Clone(m.Entries), func(a, b Metadata) bool {
		return a.itemURL() == b.itemURL()
	})

	entries = slices.DeleteFunc(entries, func(e Metadata) bool {
		return strings.Contains(e.itemURL(), "list=")
	})

	title := m.Title
	if title == "" {
		title = m.PlaylistTitle
	}

	pl := media.PlaylistInfo{ID: m.ID, Title: title}
	for _, e := range entries {
		pl.Entries = append(pl.Entries, media.Entry{
			ID:    e.ID,
			URL:   e.itemURL(),
			Title: e.Title,
		})
	}
	return pl
}

func hasCodec(c string) bool { return c != "" && c != "none" }

// Variant maps a yt-dlp format onto a stream variant. Storyboards and other
// formats without audio or video are skipped.
func (f Format) Variant() (media.Variant, bool) {
	v := media.Variant{
		ID:     f.FormatID,
		Height: f.Height,
		Size:   f.Filesize,
	}
	if v.Size == 0 {
		v.Size = f.FilesizeApprox
	}

	switch {
	case hasCodec(f.VCodec):
		v.Kind = media.VideoStream
		v.HasAudio = hasCodec(f.ACodec)
	case hasCodec(f.ACodec):
		v.Kind = media.AudioStream
	default:
		return media.Variant{}, false
	}

	rate := f.ABR
	if v.Kind == media.VideoStream || rate == 0 {
		rate = f.TBR
	}
	v.Bitrate = int(rate * 1000)

	switch c := media.Container(strings.ToLower(f.Ext)); c {
	case media.M4A, media.MP3, media.MP4, media.WebM, media.ThreeGP:
		v.Container = c
	default:
		return media.Variant{}, false
	}

	// yt-dlp reports dash audio in mp4 boxes as "m4a" already, but plain
	// audio-only mp4 still shows up on some extractors
	if v.Kind == media.AudioStream && v.Container == media.MP4 {
		v.Container = media.M4A
	}

	return v, true
}
