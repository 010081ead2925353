package store

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

// SortKey names an article ordering.
type SortKey string

const (
	SortByTime  SortKey = "Time"
	SortByVotes SortKey = "Votes"
)

// Direction multiplies the comparator: Descending puts the largest key first.
type Direction int

const (
	Descending Direction = 1
	Ascending  Direction = -1
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrInvalidDirection = errors.New("sort direction must be 1 or -1")
)

// keyFunc returns b.key - a.key for a pair of articles, as a sign.
type keyFunc func(a, b domain.Article) int

var comparators = map[SortKey]keyFunc{
	SortByTime: func(a, b domain.Article) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	},
	SortByVotes: func(a, b domain.Article) int {
		switch {
		case b.Votes > a.Votes:
			return 1
		case b.Votes < a.Votes:
			return -1
		}
		return 0
	},
}

// ParseSortKey resolves a sort key name case-insensitively.
func ParseSortKey(name string) (SortKey, error) {
	name = strings.TrimSpace(name)
	for key := range comparators {
		if strings.EqualFold(string(key), name) {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, name)
}

// ParseDirection validates a raw direction value.
func ParseDirection(d int) (Direction, error) {
	switch Direction(d) {
	case Descending, Ascending:
		return Direction(d), nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrInvalidDirection, d)
}

// titleMatcher compiles the filter text into a case-insensitive matcher.
// Text that is not a valid regular expression is matched literally.
func titleMatcher(filter string) func(string) bool {
	if filter == "" {
		return func(string) bool { return true }
	}
	re, err := regexp.Compile("(?i)" + filter)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(filter))
	}
	return re.MatchString
}

// orderArticles filters by title and sorts with direction * (b.key - a.key).
// The input slice is not modified.
func orderArticles(articles []domain.Article, key SortKey, dir Direction, filter string) []domain.Article {
	match := titleMatcher(filter)
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if match(a.Title) {
			out = append(out, a)
		}
	}

	cmp, ok := comparators[key]
	if !ok {
		return out
	}
	slices.SortStableFunc(out, func(a, b domain.Article) int {
		return int(dir) * cmp(a, b)
	})
	return out
}
