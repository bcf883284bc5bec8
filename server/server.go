// Package server wires the HTTP surface: registration, login, preference
// management and the news routes, all returning the `{news: ...}` /
// `{error: ..., details: ...}` envelope.
package server

import (
	"net/http"

	"newsdeck/news"
	"newsdeck/server/auth"
	"newsdeck/server/middlewares"
	"newsdeck/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server holds the collaborators every handler needs. Construct one per
// process; tests construct isolated instances with their own store and cache.
type Server struct {
	store  *store.Store
	news   *news.Service
	tokens *auth.TokenService
}

func New(userStore *store.Store, newsService *news.Service, tokens *auth.TokenService) *Server {
	return &Server{
		store:  userStore,
		news:   newsService,
		tokens: tokens,
	}
}

// Router assembles the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	// Default comes with the Logger and Recovery middleware already attached.
	router := gin.Default()
	router.Use(cors.Default())

	// Both route spellings are kept for compatibility with existing clients.
	router.POST("/register", s.Register)
	router.POST("/users/signup", s.Register)
	router.POST("/login", s.Login)
	router.POST("/users/login", s.Login)

	authed := router.Group("/", middlewares.Auth(s.store, s.tokens))
	authed.GET("/preferences", s.GetPreferences)
	authed.GET("/users/preferences", s.GetPreferences)
	authed.PUT("/preferences", s.PutPreferences)
	authed.PUT("/users/preferences", s.PutPreferences)

	authed.GET("/news", s.GetNews)
	authed.POST("/news/:id/read", s.MarkArticleRead)
	authed.POST("/news/:id/favorite", s.MarkArticleFavorite)
	authed.GET("/news/read", s.GetReadNews)
	authed.GET("/news/favorites", s.GetFavoriteNews)
	authed.GET("/news/search/:keyword", s.SearchNews)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	return router
}
