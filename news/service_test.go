package news

import (
	"testing"

	"newsdeck/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(articles []model.Article) (*Service, *fakeFetcher) {
	fetcher := &fakeFetcher{articles: articles}
	return NewService(NewCache(fetcher)), fetcher
}

func TestFindArticleByID(t *testing.T) {
	service, _ := newTestService(testArticles())

	all, err := service.ArticlesFor([]string{"movies"}, PlanOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	found, err := service.FindArticleByID([]string{"movies"}, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, all[0].Title, found.Title)
}

func TestFindArticleByIDNotFoundIsNotAnError(t *testing.T) {
	service, _ := newTestService(testArticles())

	found, err := service.FindArticleByID([]string{"movies"}, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSearchMatchesAnyField(t *testing.T) {
	articles := []model.Article{
		{Title: "Quantum leap", URL: "https://example.com/1"},
		{Description: "a quantum breakthrough", URL: "https://example.com/2"},
		{Content: "nothing to see", Author: "Dr. Quantum", URL: "https://example.com/3"},
		{Source: model.ArticleSource{Name: "Quantum Daily"}, URL: "https://example.com/4"},
		{Title: "unrelated", URL: "https://example.com/5"},
	}
	service, _ := newTestService(articles)

	results, err := service.Search([]string{"movies"}, "QUANTUM")
	require.NoError(t, err)
	assert.Len(t, results, 4)
	// Cache order is preserved.
	assert.Equal(t, "https://example.com/1", results[0].URL)
	assert.Equal(t, "https://example.com/4", results[3].URL)
}

func TestSearchNoMatchesYieldsEmptySlice(t *testing.T) {
	service, _ := newTestService(testArticles())

	results, err := service.Search([]string{"movies"}, "zzzzzz")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchReusesCachedEntry(t *testing.T) {
	service, fetcher := newTestService(testArticles())

	_, err := service.ArticlesFor([]string{"movies"}, PlanOptions{})
	require.NoError(t, err)
	_, err = service.Search([]string{"movies"}, "go")
	require.NoError(t, err)
	_, err = service.FindArticleByID([]string{"movies"}, "whatever")
	require.NoError(t, err)

	// All three calls resolve the same default-window plan.
	assert.Equal(t, 1, fetcher.callCount())
}
