// Package classify decides what kind of resource a YouTube URL points at and
// whether a raw string is acceptable as input at all.
package classify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

// checked in order; the first keyword contained in the URL wins.
var keywords = []struct {
	keyword  string
	category media.Category
}{
	{"watch", media.Single},
	{"playlist", media.Playlist},
	{"channel", media.Channel},
}

// Classify is a loose substring match, not path parsing: a URL holding
// several keywords resolves to the first one checked.
func Classify(rawURL string) media.Category {
	for _, k := range keywords {
		if strings.Contains(rawURL, k.keyword) {
			return k.category
		}
	}
	return media.Unsupported
}

var hosts = []string{"youtube.com", "youtu.be"}

// Validate accepts well formed absolute http(s) URLs whose host belongs to
// YouTube.
func Validate(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" || strings.ContainsAny(rawURL, " \t\n") {
		return fmt.Errorf("%w: empty or blank URL", media.ErrInvalidInput)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrInvalidInput, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("%w: unsupported scheme %q", media.ErrInvalidInput, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", media.ErrInvalidInput)
	}

	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is not a YouTube host", media.ErrInvalidInput, host)
}
