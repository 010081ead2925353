package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adda-Baaj/newsboard/internal/domain"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
		err  bool
	}{
		{"Time", SortByTime, false},
		{"votes", SortByVotes, false},
		{" VOTES ", SortByVotes, false},
		{"Score", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownSortKey, "ParseSortKey(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "ParseSortKey(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTitleMatcher(t *testing.T) {
	assert.True(t, titleMatcher("")("anything"))
	assert.True(t, titleMatcher("go")("Learning GO"))
	assert.True(t, titleMatcher("^go")("Go wins"))
	assert.False(t, titleMatcher("^go")("Why go"))
	// invalid regexp falls back to a literal match
	assert.True(t, titleMatcher("c++(")("what's new in C++(23)"))
	assert.False(t, titleMatcher("c++(")("c"))
}

func TestOrderArticlesIsTotalAndStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Article{
		{Title: "a", Votes: 3, PublishedAt: base.Add(2 * time.Minute)},
		{Title: "b", Votes: 1, PublishedAt: base},
		{Title: "c", Votes: 3, PublishedAt: base.Add(time.Minute)},
		{Title: "d", Votes: -2, PublishedAt: base.Add(3 * time.Minute)},
	}

	desc := orderArticles(in, SortByVotes, Descending, "")
	assert.Equal(t, []string{"a", "c", "b", "d"}, titles(desc))

	asc := orderArticles(in, SortByVotes, Ascending, "")
	assert.Equal(t, []string{"d", "b", "a", "c"}, titles(asc))

	newest := orderArticles(in, SortByTime, Descending, "")
	assert.Equal(t, []string{"d", "a", "c", "b"}, titles(newest))

	for i := 1; i < len(newest); i++ {
		assert.False(t, newest[i].PublishedAt.After(newest[i-1].PublishedAt))
	}

	assert.Equal(t, "a", in[0].Title, "input must not be reordered")
}
