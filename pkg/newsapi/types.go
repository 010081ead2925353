package newsapi

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

const (
	articlesPath = "/v1/articles"
	sourcesPath  = "/v1/sources"

	statusError = "error"
)

// envelope carries the status fields shared by every NewsAPI response.
type envelope struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type articlesResponse struct {
	envelope
	Source   string        `json:"source"`
	SortBy   string        `json:"sortBy"`
	Articles []jsonArticle `json:"articles"`
}

type sourcesResponse struct {
	envelope
	Sources []jsonSource `json:"sources"`
}

type jsonArticle struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type jsonSource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	Language    string `json:"language"`
	Country     string `json:"country"`
}

// articleFromJSON converts a payload record into a domain article.
// Votes start at zero and PublishedAt is the conversion time; the payload's
// publishedAt is not used.
func articleFromJSON(a jsonArticle, now time.Time) domain.Article {
	title := strings.TrimSpace(a.Title)
	desc := plainText(a.Description)
	url := strings.TrimSpace(a.URL)
	return domain.Article{
		ID:          domain.ArticleID(title, desc, url),
		Title:       title,
		Description: desc,
		URL:         url,
		Author:      strings.TrimSpace(a.Author),
		ImageURL:    strings.TrimSpace(a.URLToImage),
		Votes:       0,
		PublishedAt: now,
	}
}

func sourceFromJSON(s jsonSource) domain.Source {
	return domain.Source{
		ID:          strings.TrimSpace(s.ID),
		Name:        strings.TrimSpace(s.Name),
		Description: strings.TrimSpace(s.Description),
		URL:         strings.TrimSpace(s.URL),
		Category:    strings.TrimSpace(s.Category),
		Language:    strings.TrimSpace(s.Language),
		Country:     strings.TrimSpace(s.Country),
	}
}
