package news

import (
	"strings"

	"newsdeck/model"
)

// Service resolves article reads against the cache: plan the query for the
// caller's preferences, ensure a live entry, then answer from it.
type Service struct {
	cache *Cache
}

func NewService(cache *Cache) *Service {
	return &Service{cache: cache}
}

// ArticlesFor returns the cached or freshly fetched articles for a
// preference set and date window.
func (s *Service) ArticlesFor(preferences []string, opts PlanOptions) ([]model.Article, error) {
	entry, err := s.cache.Ensure(PlanQuery(preferences, opts))
	if err != nil {
		return nil, err
	}
	return entry.Articles, nil
}

// FindArticleByID scans the default-window entry for an article with the
// given id. Absence is not an error: the result is simply nil.
func (s *Service) FindArticleByID(preferences []string, id string) (*model.Article, error) {
	entry, err := s.cache.Ensure(PlanQuery(preferences, PlanOptions{}))
	if err != nil {
		return nil, err
	}
	for i := range entry.Articles {
		if entry.Articles[i].ID == id {
			article := entry.Articles[i]
			return &article, nil
		}
	}
	return nil, nil
}

// Search filters the default-window entry by a case-insensitive substring
// match over title, description, content, author and source name. Any one
// field matching qualifies the article; cache order is preserved. The
// keyword is validated at the HTTP boundary before reaching here.
func (s *Service) Search(preferences []string, keyword string) ([]model.Article, error) {
	entry, err := s.cache.Ensure(PlanQuery(preferences, PlanOptions{}))
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(keyword)
	matches := []model.Article{}
	for _, article := range entry.Articles {
		if articleMatches(article, needle) {
			matches = append(matches, article)
		}
	}
	return matches, nil
}

func articleMatches(article model.Article, needle string) bool {
	for _, field := range []string{
		article.Title,
		article.Description,
		article.Content,
		article.Author,
		article.Source.Name,
	} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
