package crawler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/newsboard/internal/domain"
	"github.com/Adda-Baaj/newsboard/internal/logger"
	"github.com/Adda-Baaj/newsboard/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxHTMLBodyBytes  = 1 << 20 // 1 MiB
	maxArticleWorkers = 10
)

// Enricher fills in missing article descriptions by scraping the article page.
type Enricher struct {
	client httpclient.Client
	log    logger.Logger
	delay  time.Duration
}

// NewEnricher creates an Enricher. delay spaces out page requests; zero means no limit.
func NewEnricher(client httpclient.Client, log logger.Logger, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(15 * time.Second)
	}
	return &Enricher{client: client, log: logger.Ensure(log), delay: delay}
}

// Enrich returns a copy of articles where empty descriptions have been filled
// from page metadata when possible. Articles without a URL or with a description
// are passed through untouched.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles) // default to originals so partial results are returned on cancel

	var pending []int
	for idx, art := range articles {
		if strings.TrimSpace(art.Description) == "" && strings.TrimSpace(art.URL) != "" {
			pending = append(pending, idx)
		}
	}
	if len(pending) == 0 {
		return out
	}

	workerCount := min(len(pending), maxArticleWorkers)

	var limiter <-chan time.Time
	if e.delay > 0 {
		ticker := time.NewTicker(e.delay)
		limiter = ticker.C
		defer ticker.Stop()
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for workerID := range workerCount {
		wg.Add(1)
		go e.articleWorker(ctx, articles, limiter, jobCh, out, &wg, workerID)
	}

	for _, idx := range pending {
		if ctx.Err() != nil {
			break
		}
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()

	return out
}

// articleWorker drains jobCh, respecting the rate limiter.
func (e *Enricher) articleWorker(
	ctx context.Context,
	articles []domain.Article,
	limiter <-chan time.Time,
	jobCh <-chan int,
	out []domain.Article,
	wg *sync.WaitGroup,
	workerID int,
) {
	defer wg.Done()

	for idx := range jobCh {
		if ctx.Err() != nil {
			continue
		}

		if limiter != nil {
			select {
			case <-ctx.Done():
				continue
			case <-limiter:
			}
		}

		art := articles[idx]
		desc, err := e.fetchDescription(ctx, art, workerID)
		if err != nil {
			e.log.WarnObj("article description scrape failed", "enrich_error", map[string]any{
				"worker_id":  workerID,
				"article_id": art.ID,
				"url":        art.URL,
				"error":      err.Error(),
			})
			continue
		}
		if desc != "" {
			out[idx].Description = desc
		}
	}
}

// fetchDescription downloads the article page and extracts its description.
func (e *Enricher) fetchDescription(ctx context.Context, art domain.Article, workerID int) (string, error) {
	e.log.DebugObj("scraping article description", "enrich_start", map[string]any{
		"worker_id": workerID,
		"url":       art.URL,
	})

	resp, err := e.client.Get(ctx, art.URL, nil, map[string]string{"Accept": "text/html"})
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return "", fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		e.log.InfoObj("html body truncated", "truncation", map[string]any{
			"worker_id": workerID,
			"url":       art.URL,
			"original":  len(body),
			"kept":      maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	return parseDescription(body)
}

// parseDescription prefers og:description over the plain meta description.
func parseDescription(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
		extract(`meta[name="twitter:description"]`),
	), nil
}

// firstNonEmpty returns the first non-empty string from the given values.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
