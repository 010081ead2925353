// Package store holds the article list and the user's sort, filter and source
// selection as one immutable State, and keeps the ordered view derived from it.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Adda-Baaj/newsboard/internal/domain"
	"github.com/Adda-Baaj/newsboard/internal/logger"
)

// DefaultSource is the aggregate source used when none is configured.
const DefaultSource = "reddit-r-all"

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrAlreadyStarted  = errors.New("store already started")
)

// Fetcher is the remote data source. A nil result means the fetch failed;
// a non-nil empty slice is a successful empty listing.
type Fetcher interface {
	FetchArticles(ctx context.Context, sourceKey string) []domain.Article
	FetchSources(ctx context.Context) []domain.Source
}

// State is an immutable snapshot. View is the filtered and sorted projection of
// Articles and is always consistent with the other fields.
type State struct {
	Articles       []domain.Article
	Sources        []domain.Source
	SortKey        SortKey
	Direction      Direction
	Filter         string
	SelectedSource string
	View           []domain.Article
}

func (s State) clone() State {
	s.Articles = slices.Clone(s.Articles)
	s.Sources = slices.Clone(s.Sources)
	s.View = slices.Clone(s.View)
	return s
}

// ChangeKind says which transition produced a Change.
type ChangeKind string

const (
	ArticlesReplaced ChangeKind = "articles_replaced"
	SourcesReplaced  ChangeKind = "sources_replaced"
	SortChanged      ChangeKind = "sort_changed"
	FilterChanged    ChangeKind = "filter_changed"
	VoteApplied      ChangeKind = "vote_applied"
)

// Change is delivered to listeners after every transition.
type Change struct {
	Kind      ChangeKind
	State     State
	ArticleID string // set for VoteApplied
}

// Listener observes state changes. Listeners run synchronously on the goroutine
// that caused the change, after the store lock is released.
type Listener func(Change)

type subscription struct {
	id int
	fn Listener
}

// Store is the article state container.
type Store struct {
	fetcher       Fetcher
	log           logger.Logger
	defaultSource string

	mu         sync.Mutex
	state      State
	started    bool
	refreshSeq uint64
	nextSubID  int
	subs       []subscription
}

// Option customises a Store.
type Option func(*Store)

// WithDefaultSource overrides DefaultSource.
func WithDefaultSource(key string) Option {
	return func(s *Store) {
		if key = strings.TrimSpace(key); key != "" {
			s.defaultSource = key
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = logger.Ensure(log) }
}

// WithArticles seeds the article list, mainly for tests and offline rendering.
func WithArticles(articles []domain.Article) Option {
	return func(s *Store) { s.state.Articles = uniqueIDs(articles) }
}

// New builds a Store. No I/O happens until Start or one of the fetch methods is called.
func New(fetcher Fetcher, opts ...Option) *Store {
	s := &Store{
		fetcher:       fetcher,
		log:           logger.NopLogger{},
		defaultSource: DefaultSource,
		state: State{
			SortKey:   SortByVotes,
			Direction: Descending,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.SelectedSource = s.defaultSource
	s.state.View = orderArticles(s.state.Articles, s.state.SortKey, s.state.Direction, s.state.Filter)
	return s
}

// DefaultSource returns the source key used when none is given.
func (s *Store) DefaultSource() string { return s.defaultSource }

// Start performs the initial fetch of the default source and the source list.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	s.GetArticles(ctx, "")
	s.GetSources(ctx)
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// View returns a copy of the ordered articles.
func (s *Store) View() []domain.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.View)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: l})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
			s.mu.Unlock()
		})
	}
}

// SortBy switches the comparator and direction.
func (s *Store) SortBy(name string, direction int) error {
	key, err := ParseSortKey(name)
	if err != nil {
		return err
	}
	dir, err := ParseDirection(direction)
	if err != nil {
		return err
	}
	return s.dispatch(SortChanged, "", func(st *State) error {
		st.SortKey = key
		st.Direction = dir
		return nil
	})
}

// FilterBy replaces the title filter. An empty filter matches every article.
func (s *Store) FilterBy(text string) {
	_ = s.dispatch(FilterChanged, "", func(st *State) error {
		st.Filter = text
		return nil
	})
}

// GetArticles fetches sourceKey (the default source when empty) and replaces the
// article list wholesale; votes on the previous list are discarded. It reports
// whether the list was replaced: failed fetches and responses overtaken by a
// newer request leave the state untouched.
func (s *Store) GetArticles(ctx context.Context, sourceKey string) bool {
	sourceKey = strings.TrimSpace(sourceKey)
	if sourceKey == "" {
		sourceKey = s.defaultSource
	}
	return s.refresh(ctx, sourceKey)
}

// UpdateArticles is the refresh signal: it selects sourceKey and re-fetches.
// An empty key refreshes the currently selected source.
func (s *Store) UpdateArticles(ctx context.Context, sourceKey string) bool {
	sourceKey = strings.TrimSpace(sourceKey)
	if sourceKey == "" {
		s.mu.Lock()
		sourceKey = s.state.SelectedSource
		s.mu.Unlock()
	}
	return s.GetArticles(ctx, sourceKey)
}

func (s *Store) refresh(ctx context.Context, sourceKey string) bool {
	s.mu.Lock()
	s.refreshSeq++
	seq := s.refreshSeq
	s.mu.Unlock()

	articles := s.fetcher.FetchArticles(ctx, sourceKey)
	if articles == nil {
		return false
	}

	err := s.dispatch(ArticlesReplaced, "", func(st *State) error {
		if seq != s.refreshSeq {
			return errStale
		}
		st.Articles = uniqueIDs(articles)
		st.SelectedSource = sourceKey
		return nil
	})
	if errors.Is(err, errStale) {
		s.log.DebugObj("dropping superseded article refresh", "refresh_stale", map[string]any{
			"source": sourceKey,
		})
		return false
	}
	if err == nil {
		s.log.InfoObj("articles replaced", "articles_replaced", map[string]any{
			"source": sourceKey,
			"count":  len(articles),
		})
	}
	return err == nil
}

var errStale = errors.New("stale refresh")

// uniqueIDs returns a copy of articles in which every ID is set and distinct.
// Listings may repeat a URL, and votes are routed by ID, so a repeated ID gets
// its position appended.
func uniqueIDs(articles []domain.Article) []domain.Article {
	out := slices.Clone(articles)
	seen := make(map[string]struct{}, len(out))
	for i := range out {
		id := out[i].ID
		if id == "" {
			id = domain.ArticleID(out[i].Title, out[i].Description, out[i].URL)
		}
		if _, dup := seen[id]; dup {
			base := id
			for n := i; ; n++ {
				id = fmt.Sprintf("%s-%d", base, n)
				if _, dup := seen[id]; !dup {
					break
				}
			}
		}
		seen[id] = struct{}{}
		out[i].ID = id
	}
	return out
}

// GetSources fetches the source list and stores it unless the result is empty.
func (s *Store) GetSources(ctx context.Context) bool {
	sources := s.fetcher.FetchSources(ctx)
	if len(sources) == 0 {
		s.log.DebugObj("ignoring empty source list", "sources_empty", nil)
		return false
	}
	_ = s.dispatch(SourcesReplaced, "", func(st *State) error {
		st.Sources = slices.Clone(sources)
		return nil
	})
	return true
}

// ApplyVote adds delta to the votes of the article with the given id.
func (s *Store) ApplyVote(id string, delta int) error {
	return s.vote(id, func(a *domain.Article) { a.Votes += delta })
}

// Upvote adds one vote to the article.
func (s *Store) Upvote(id string) error { return s.vote(id, (*domain.Article).VoteUp) }

// Downvote removes one vote from the article.
func (s *Store) Downvote(id string) error { return s.vote(id, (*domain.Article).VoteDown) }

func (s *Store) vote(id string, fn func(*domain.Article)) error {
	return s.dispatch(VoteApplied, id, func(st *State) error {
		idx := slices.IndexFunc(st.Articles, func(a domain.Article) bool { return a.ID == id })
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrArticleNotFound, id)
		}
		st.Articles = slices.Clone(st.Articles)
		fn(&st.Articles[idx])
		return nil
	})
}

// dispatch applies a reducer to a copy of the state, recomputes the view and
// notifies listeners. On reducer error nothing changes.
func (s *Store) dispatch(kind ChangeKind, articleID string, reduce func(*State) error) error {
	s.mu.Lock()
	next := s.state
	if err := reduce(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.View = orderArticles(next.Articles, next.SortKey, next.Direction, next.Filter)
	s.state = next
	subs := slices.Clone(s.subs)
	change := Change{Kind: kind, State: next.clone(), ArticleID: articleID}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(change)
	}
	return nil
}
