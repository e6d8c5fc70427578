package orchestrator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/marcopiovanello/yt-media-dl/app/internal/media"
	"github.com/marcopiovanello/yt-media-dl/app/internal/stats"
)

type State int

const (
	AwaitingURL State = iota
	Classified
	FormatSelected
	Downloading
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingURL:
		return "awaiting-url"
	case Classified:
		return "classified"
	case FormatSelected:
		return "format-selected"
	case Downloading:
		return "downloading"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session is the state of one run. It is owned by the orchestrator driving
// it and only read by callers once Run returns.
type Session struct {
	ID       string
	URL      string
	Category media.Category
	Format   media.Format
	Stats    *stats.Tracker

	state State
}

func newSession() *Session {
	return &Session{
		ID:    uuid.NewString(),
		Stats: stats.New(),
		state: AwaitingURL,
	}
}

func (s *Session) State() State { return s.state }

// advance moves to the next state; states are never skipped or revisited.
func (s *Session) advance(to State) error {
	if to != s.state+1 {
		return fmt.Errorf("session %s: illegal transition %s -> %s", s.ID, s.state, to)
	}
	s.state = to
	return nil
}

// finish marks the run as over whatever state it stopped in.
func (s *Session) finish() { s.state = Done }
