package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Adda-Baaj/newsboard/internal/domain"
	"github.com/Adda-Baaj/newsboard/internal/logger"
)

const articlesBody = `{
  "status": "ok",
  "source": "reddit-r-all",
  "sortBy": "top",
  "articles": [
    {"author": "alice", "title": " First ", "description": "<p>Hello <b>world</b></p>", "url": "https://example.com/1", "urlToImage": "https://example.com/1.png", "publishedAt": "2017-01-01T00:00:00Z"},
    {"title": "Second", "description": "plain"}
  ]
}`

func newTestGateway(t *testing.T, h http.HandlerFunc, opts ...Option) (*Gateway, *observer.ObservedLogs) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	g := NewGateway(Config{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: 2 * time.Second}, nil, logger.FromZap(zap.New(core)), opts...)
	return g, logs
}

func TestFetchArticlesSendsParameters(t *testing.T) {
	var gotPath, gotKey, gotSource string
	var hasSource bool
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		gotSource = r.URL.Query().Get("source")
		_, hasSource = r.URL.Query()["source"]
		_, _ = w.Write([]byte(articlesBody))
	})

	_ = g.FetchArticles(context.Background(), "techcrunch")
	assert.Equal(t, "/v1/articles", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "techcrunch", gotSource)

	_ = g.FetchArticles(context.Background(), "  ")
	assert.False(t, hasSource, "source must be omitted when empty")
}

func TestFetchArticlesAlwaysSendsAPIKey(t *testing.T) {
	var hasKey bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey = r.URL.Query()["apiKey"]
		_, _ = w.Write([]byte(articlesBody))
	}))
	defer srv.Close()

	g := NewGateway(Config{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil, nil)
	require.NotNil(t, g.FetchArticles(context.Background(), ""))
	assert.True(t, hasKey)
}

func TestFetchArticlesConvertsRecords(t *testing.T) {
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlesBody))
	}, WithClock(func() time.Time { return fixed }))

	articles := g.FetchArticles(context.Background(), "reddit-r-all")
	require.Len(t, articles, 2)

	first := articles[0]
	assert.Equal(t, "First", first.Title)
	assert.Equal(t, "Hello world", first.Description)
	assert.Equal(t, "https://example.com/1", first.URL)
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, "https://example.com/1.png", first.ImageURL)
	assert.Equal(t, 0, first.Votes)
	assert.Equal(t, fixed, first.PublishedAt, "payload publishedAt is ignored")
	assert.Equal(t, domain.ArticleID("First", "Hello world", "https://example.com/1"), first.ID)

	assert.Equal(t, "plain", articles[1].Description)
	assert.NotEqual(t, first.ID, articles[1].ID)
}

func TestFetchArticlesSwallowsFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"articles": [`))
		}},
		{"api error envelope", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"bad key"}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, logs := newTestGateway(t, tc.handler)
			assert.Nil(t, g.FetchArticles(context.Background(), "x"))
			assert.Equal(t, 1, logs.FilterMessage("article fetch failed").Len())
		})
	}
}

func TestFetchArticlesUnreachableHost(t *testing.T) {
	g := NewGateway(Config{BaseURL: "http://127.0.0.1:1", APIKey: "k", Timeout: time.Second}, nil, nil)
	assert.Nil(t, g.FetchArticles(context.Background(), ""))
}

func TestFetchArticlesEmptyBaseURL(t *testing.T) {
	g := NewGateway(Config{}, nil, nil)
	assert.Nil(t, g.FetchArticles(context.Background(), ""))
	assert.Nil(t, g.FetchSources(context.Background()))
}

type stubEnricher struct{ calls int }

func (s *stubEnricher) Enrich(_ context.Context, in []domain.Article) []domain.Article {
	s.calls++
	out := make([]domain.Article, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Description == "" {
			out[i].Description = "enriched"
		}
	}
	return out
}

func TestFetchArticlesRunsEnricher(t *testing.T) {
	enr := &stubEnricher{}
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","articles":[{"title":"T","description":""}]}`))
	}, WithEnricher(enr))

	articles := g.FetchArticles(context.Background(), "")
	require.Len(t, articles, 1)
	assert.Equal(t, "enriched", articles[0].Description)
	assert.Equal(t, 1, enr.calls)
}

func TestFetchSources(t *testing.T) {
	g, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/sources", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(`{"status":"ok","sources":[{"id":"bbc-news","name":"BBC News","category":"general","language":"en","country":"gb"}]}`))
	})

	sources := g.FetchSources(context.Background())
	require.Len(t, sources, 1)
	assert.Equal(t, domain.Source{ID: "bbc-news", Name: "BBC News", Category: "general", Language: "en", Country: "gb"}, sources[0])
}

func TestFetchSourcesFailure(t *testing.T) {
	g, logs := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.Nil(t, g.FetchSources(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("source fetch failed").Len())
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  spaced   out  ", "spaced out"},
		{"<p>a <i>b</i></p>", "a b"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainText(tt.in), "plainText(%q)", tt.in)
	}
}

func TestResponseSnippet(t *testing.T) {
	assert.Equal(t, "<empty>", responseSnippet(nil))
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, responseSnippet(long), 515)
}
