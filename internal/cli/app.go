package cli

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/newsboard/internal/config"
	"github.com/Adda-Baaj/newsboard/internal/crawler"
	"github.com/Adda-Baaj/newsboard/internal/logger"
	"github.com/Adda-Baaj/newsboard/internal/store"
	"github.com/Adda-Baaj/newsboard/pkg/httpclient"
	"github.com/Adda-Baaj/newsboard/pkg/newsapi"
	"github.com/Adda-Baaj/newsboard/pkg/publishers"
)

// app bundles the wired components for one command invocation.
type app struct {
	cfg         *config.Config
	log         logger.Logger
	store       *store.Store
	dispatcher  *publishers.Dispatcher
	unsubscribe func()
}

func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	client := httpclient.NewRestyClient(cfg.API.Timeout)

	var opts []newsapi.Option
	if cfg.Enrich.Enabled {
		opts = append(opts, newsapi.WithEnricher(crawler.NewEnricher(client, log, cfg.Enrich.RequestDelay)))
	}
	gateway := newsapi.NewGateway(newsapi.Config{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: cfg.API.Timeout,
	}, client, log, opts...)

	a := &app{
		cfg:         cfg,
		log:         log,
		store:       store.New(gateway, store.WithDefaultSource(cfg.API.DefaultSource), store.WithLogger(log)),
		unsubscribe: func() {},
	}

	if cfg.Publishers.File != "" {
		reg, err := publishers.LoadRegistry(cfg.Publishers.File)
		if err != nil {
			return nil, fmt.Errorf("loading publishers: %w", err)
		}
		pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), reg.Enabled(), log)
		if err != nil {
			return nil, fmt.Errorf("building publishers: %w", err)
		}
		a.dispatcher = publishers.NewDispatcher(pubs, log, 0)
		a.unsubscribe = a.store.Subscribe(func(c store.Change) {
			if evt, ok := eventFromChange(c); ok {
				a.dispatcher.Dispatch(evt)
			}
		})
		log.InfoObj("event publishers enabled", "publishers_enabled", map[string]any{
			"count": a.dispatcher.Len(),
		})
	}
	return a, nil
}

// close flushes pending event deliveries and the logger.
func (a *app) close() {
	a.unsubscribe()
	if a.dispatcher != nil {
		a.dispatcher.Close()
	}
	_ = a.log.Sync()
}

// eventFromChange maps the store transitions worth exporting to events.
func eventFromChange(c store.Change) (publishers.Event, bool) {
	switch c.Kind {
	case store.ArticlesReplaced:
		return publishers.Event{
			Type:   publishers.EventArticlesRefreshed,
			Source: c.State.SelectedSource,
			Count:  len(c.State.Articles),
		}, true
	case store.VoteApplied:
		for _, art := range c.State.Articles {
			if art.ID == c.ArticleID {
				return publishers.VoteEvent(c.State.SelectedSource, art.ID, art.Title, art.Votes), true
			}
		}
	}
	return publishers.Event{}, false
}
