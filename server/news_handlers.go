package server

import (
	"net/http"
	"strconv"
	"strings"

	"newsdeck/model"
	"newsdeck/news"
	"newsdeck/server/middlewares"
	"newsdeck/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	missingKeyNotice      = "NEWS_API_KEY is not configured; returning an empty result set for now."
	featureUnavailableMsg = "News provider is not configured; this feature is unavailable."
)

// GetNews returns the cached or freshly fetched articles for the caller's
// preferences. A missing provider credential degrades to an empty result
// with a notice rather than an error; an unreachable provider is a 502.
func (s *Server) GetNews(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	articles, err := s.news.ArticlesFor(user.Preferences, planOptionsFromQuery(c))
	if err != nil {
		if errors.Is(err, news.ErrNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"news": []model.Article{}, "notice": missingKeyNotice})
			return
		}
		log.Log.Errorf("news fetch failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamMessage(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": articles})
}

// planOptionsFromQuery reads the optional date-window params. Unparsable
// values are treated as absent; the planner falls back through its
// resolution order.
func planOptionsFromQuery(c *gin.Context) news.PlanOptions {
	opts := news.PlanOptions{
		From: strings.TrimSpace(c.Query("from")),
		To:   strings.TrimSpace(c.Query("to")),
	}
	if days, err := strconv.Atoi(strings.TrimSpace(c.Query("days"))); err == nil && days > 0 {
		opts.Days = days
	}
	return opts
}

func (s *Server) MarkArticleRead(c *gin.Context) {
	s.markArticle(c, false)
}

func (s *Server) MarkArticleFavorite(c *gin.Context) {
	s.markArticle(c, true)
}

// markArticle resolves the article id against the caller's default cache
// window and records a snapshot in the selected collection. An id outside
// the current window is a 404, not an error.
func (s *Server) markArticle(c *gin.Context, favorite bool) {
	user := middlewares.CurrentUser(c)
	id := c.Param("id")

	article, err := s.news.FindArticleByID(user.Preferences, id)
	if err != nil {
		s.respondNewsError(c, err)
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	snapshot := model.SnapshotOf(*article)
	if favorite {
		err = s.store.AddFavoriteArticle(user.Email, snapshot)
	} else {
		err = s.store.AddReadArticle(user.Email, snapshot)
	}
	if err != nil {
		log.Log.Errorf("unable to record article %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update your articles right now"})
		return
	}

	message := "Article marked as read"
	if favorite {
		message = "Article marked as favorite"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "article": snapshot})
}

func (s *Server) GetReadNews(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"news": s.store.GetReadArticles(user.Email)})
}

func (s *Server) GetFavoriteNews(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"news": s.store.GetFavoriteArticles(user.Email)})
}

// SearchNews validates the keyword before touching the cache, then filters
// the caller's default-window articles by substring match.
func (s *Server) SearchNews(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	keyword := strings.TrimSpace(c.Param("keyword"))

	if err := validate.Struct(searchKeywordRequest{Keyword: keyword}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationDetails(err, "search")})
		return
	}

	results, err := s.news.Search(user.Preferences, keyword)
	if err != nil {
		s.respondNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": results})
}

// respondNewsError maps the error taxonomy for routes that cannot degrade
// gracefully: missing credential is a 503 refusal, anything else from the
// provider is a 502.
func (s *Server) respondNewsError(c *gin.Context, err error) {
	if errors.Is(err, news.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": featureUnavailableMsg})
		return
	}
	log.Log.Errorf("news fetch failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": upstreamMessage(err)})
}

// upstreamMessage prefers the provider's own description when the error
// carries one.
func upstreamMessage(err error) string {
	if err == nil {
		return "Unable to reach external news provider"
	}
	return err.Error()
}
