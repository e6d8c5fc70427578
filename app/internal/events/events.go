// Package events names the topics the orchestrator publishes on and the
// payload carried by every one of them.
package events

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
)

const (
	URLInvalid       = "url:invalid"
	URLClassified    = "url:classified"
	FormatInvalid    = "format:invalid"
	CategoryRejected = "category:rejected"
	DownloadStarted  = "download:started"
	PlaylistStarted  = "playlist:started"
	ItemProgress     = "item:progress"
	ItemSaved        = "item:saved"
	ItemFailed       = "item:failed"
)

// Topics lists every topic, handy for subscribers wanting all of them.
var Topics = []string{
	URLInvalid,
	URLClassified,
	FormatInvalid,
	CategoryRejected,
	DownloadStarted,
	PlaylistStarted,
	ItemProgress,
	ItemSaved,
	ItemFailed,
}

// Event is the single payload type published on every topic; fields not
// relevant to a topic are left zero.
type Event struct {
	Topic    string
	Input    string
	URL      string
	Title    string
	ItemID   string
	Path     string
	Category media.Category
	Format   media.Format
	Index    int
	Total    int
	Err      error
}

type Bus = evbus.Bus

func NewBus() Bus { return evbus.New() }

// Publish stamps the topic on e before handing it to the bus. Handlers are
// synchronous so events reach subscribers in publish order.
func Publish(b Bus, topic string, e Event) {
	e.Topic = topic
	b.Publish(topic, e)
}
