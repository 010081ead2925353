package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewArticleDefaults(t *testing.T) {
	before := time.Now()
	a := NewArticle("Title", "Desc", 0)
	after := time.Now()

	assert.Equal(t, 0, a.Votes)
	assert.False(t, a.PublishedAt.Before(before))
	assert.False(t, a.PublishedAt.After(after))
	assert.NotEmpty(t, a.ID)
}

func TestVotesOnlyTouchCounter(t *testing.T) {
	a := NewArticle("Title", "Desc", 0)
	orig := a

	a.VoteUp()
	assert.Equal(t, 1, a.Votes)
	a.VoteDown()
	a.VoteDown()
	assert.Equal(t, -1, a.Votes, "votes may go negative")

	assert.Equal(t, orig.Title, a.Title)
	assert.Equal(t, orig.Description, a.Description)
	assert.Equal(t, orig.PublishedAt, a.PublishedAt)
	assert.Equal(t, orig.ID, a.ID)
}

func TestArticleID(t *testing.T) {
	assert.Equal(t, ArticleID("a", "b", "https://x/1"), ArticleID("other", "thing", "https://x/1"))
	assert.NotEqual(t, ArticleID("a", "b", ""), ArticleID("a", "c", ""))
	assert.Len(t, ArticleID("a", "b", ""), 40)
}
