package publishers

import (
	"context"
	"time"

	"github.com/Adda-Baaj/newsboard/internal/logger"
)

// Event types emitted by newsboard.
const (
	EventArticlesRefreshed = "articles_refreshed"
	EventVoteApplied       = "vote_applied"
)

// Event is the payload delivered to every sink. Votes is set only on
// vote_applied events and is serialised even when zero.
type Event struct {
	Type       string    `json:"type"`
	Source     string    `json:"source,omitempty"`
	ArticleID  string    `json:"article_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Votes      *int      `json:"votes,omitempty"`
	Count      int       `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// VoteEvent builds a vote_applied event carrying the article's new total.
func VoteEvent(source, articleID, title string, votes int) Event {
	return Event{
		Type:      EventVoteApplied,
		Source:    source,
		ArticleID: articleID,
		Title:     title,
		Votes:     &votes,
	}
}

// attributes returns the routing attributes attached to queue messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{"event_type": e.Type}
	if e.Source != "" {
		attrs["source"] = e.Source
	}
	return attrs
}

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the logging surface publishers write to.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }
