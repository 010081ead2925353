package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adda-Baaj/newsboard/internal/domain"
	"github.com/Adda-Baaj/newsboard/internal/logger"
	"github.com/Adda-Baaj/newsboard/pkg/httpclient"
)

// Enricher post-processes freshly converted articles before they are returned.
type Enricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// Config holds the remote endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Gateway issues requests against the news API. Every failure is logged and
// swallowed: callers only ever see a nil result.
type Gateway struct {
	client   httpclient.Client
	baseURL  string
	apiKey   string
	log      logger.Logger
	enricher Enricher
	now      func() time.Time
}

// Option customises a Gateway.
type Option func(*Gateway)

// WithEnricher installs a post-processing step for fetched articles.
func WithEnricher(e Enricher) Option {
	return func(g *Gateway) { g.enricher = e }
}

// WithClock overrides the timestamp source used for article construction.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGateway builds a Gateway. A nil client gets a resty client with cfg.Timeout.
func NewGateway(cfg Config, client httpclient.Client, log logger.Logger, opts ...Option) *Gateway {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = httpclient.NewRestyClient(timeout)
	}
	g := &Gateway{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		log:     logger.Ensure(log),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchArticles loads the article listing, optionally narrowed to sourceKey.
func (g *Gateway) FetchArticles(ctx context.Context, sourceKey string) []domain.Article {
	sourceKey = strings.TrimSpace(sourceKey)
	query := map[string]string{"apiKey": g.apiKey}
	if sourceKey != "" {
		query["source"] = sourceKey
	}

	var resp articlesResponse
	if err := g.getJSON(ctx, articlesPath, query, &resp); err != nil {
		g.log.ErrorObj("article fetch failed", "articles_fetch_error", map[string]any{
			"source": sourceKey,
			"error":  err.Error(),
		})
		return nil
	}

	now := g.now()
	articles := make([]domain.Article, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		articles = append(articles, articleFromJSON(a, now))
	}

	g.log.DebugObj("articles fetched", "articles_fetched", map[string]any{
		"source":  sourceKey,
		"sort_by": resp.SortBy,
		"count":   len(articles),
	})

	if g.enricher != nil && len(articles) > 0 {
		articles = g.enricher.Enrich(ctx, articles)
	}
	return articles
}

// FetchSources loads the source listing.
func (g *Gateway) FetchSources(ctx context.Context) []domain.Source {
	var resp sourcesResponse
	if err := g.getJSON(ctx, sourcesPath, map[string]string{"apiKey": g.apiKey}, &resp); err != nil {
		g.log.ErrorObj("source fetch failed", "sources_fetch_error", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	sources := make([]domain.Source, 0, len(resp.Sources))
	for _, s := range resp.Sources {
		sources = append(sources, sourceFromJSON(s))
	}

	g.log.DebugObj("sources fetched", "sources_fetched", map[string]any{
		"count": len(sources),
	})
	return sources
}

// statusCarrier lets getJSON inspect the envelope of any response type.
type statusCarrier interface {
	apiError() error
}

func (e envelope) apiError() error {
	if !strings.EqualFold(e.Status, statusError) {
		return nil
	}
	return fmt.Errorf("api error %s: %s", e.Code, e.Message)
}

func (g *Gateway) getJSON(ctx context.Context, path string, query map[string]string, out statusCarrier) error {
	if g.baseURL == "" {
		return errors.New("base url is empty")
	}

	resp, err := g.client.Get(ctx, g.baseURL+path, query, map[string]string{"Accept": "application/json"})
	if err != nil {
		return fmt.Errorf("http get %s: %w", path, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%s returned status %d body: %s", path, resp.StatusCode(), responseSnippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return out.apiError()
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
