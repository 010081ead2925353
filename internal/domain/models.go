package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"strings"
	"time"
)

// Domain contains core models.

// Article is a single news item. Title, Description and PublishedAt are fixed at
// construction; Votes is the only mutable field and has no bounds.
type Article struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	URL         string    `json:"url,omitempty" yaml:"url,omitempty"`
	Author      string    `json:"author,omitempty" yaml:"author,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Votes       int       `json:"votes" yaml:"votes"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
}

// NewArticle builds an article stamped with the current local time.
func NewArticle(title, description string, votes int) Article {
	return newArticleAt(title, description, "", votes, time.Now())
}

// NewArticleWithURL is NewArticle with a URL, which also becomes the identity seed.
func NewArticleWithURL(title, description, url string) Article {
	return newArticleAt(title, description, url, 0, time.Now())
}

func newArticleAt(title, description, url string, votes int, at time.Time) Article {
	return Article{
		ID:          ArticleID(title, description, url),
		Title:       title,
		Description: description,
		URL:         url,
		Votes:       votes,
		PublishedAt: at,
	}
}

// VoteUp adds one vote.
func (a *Article) VoteUp() { a.Votes++ }

// VoteDown removes one vote.
func (a *Article) VoteDown() { a.Votes-- }

// ArticleID derives a stable id from the URL, falling back to title and description.
func ArticleID(title, description, url string) string {
	seed := strings.TrimSpace(url)
	if seed == "" {
		seed = title + "\x00" + description
	}
	sum := sha1.Sum([]byte(seed)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Source is a news API source listing entry.
type Source struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
}
