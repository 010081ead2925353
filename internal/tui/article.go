package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

// voter is the part of the store an article row needs.
type voter interface {
	Upvote(id string) error
	Downvote(id string) error
}

// articleItem is one rendered row bound to an article.
type articleItem struct {
	article domain.Article
	votes   voter
}

func (a articleItem) upvote() error   { return a.votes.Upvote(a.article.ID) }
func (a articleItem) downvote() error { return a.votes.Downvote(a.article.ID) }

func (a articleItem) render(selected bool, width int, now time.Time) string {
	if width < 20 {
		width = 40
	}

	score := voteStyle.Render(fmt.Sprintf("%4d", a.article.Votes))
	titleWidth := width - 8
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(a.article.Title, titleWidth))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(a.article.Title, titleWidth))
	}

	meta := "       " + itemTimeStyle.Render(relativeTime(now.Sub(a.article.PublishedAt), a.article.PublishedAt))
	if a.article.Author != "" {
		meta += itemMetaStyle.Render(" · " + truncateStr(a.article.Author, 30))
	}
	if desc := strings.TrimSpace(a.article.Description); desc != "" {
		meta += "\n       " + itemDescStyle.Render(truncateStr(desc, titleWidth))
	}
	return score + " " + title + "\n" + meta
}

func relativeTime(d time.Duration, t time.Time) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
