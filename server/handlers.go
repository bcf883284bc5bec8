package server

import (
	"net/http"
	"strings"
	"time"

	"newsdeck/model"
	"newsdeck/news"
	"newsdeck/server/middlewares"
	"newsdeck/store"
	"newsdeck/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Register creates a new account. Preferences are normalized before storage
// so every later query plan works from canonical tokens.
func (s *Server) Register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationDetails(err, "registration")})
		return
	}

	if s.store.FindUserByEmail(req.Email) != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with that email already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Log.Errorf("signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to create user right now"})
		return
	}

	s.store.SaveUser(model.User{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       store.NormalizeEmail(req.Email),
		Password:    string(hashed),
		Preferences: news.NormalizeRawPreferences(req.Preferences),
		CreatedAt:   time.Now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationDetails(err, "login")})
		return
	}

	user := s.store.FindUserByEmail(req.Email)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := s.tokens.Sign(*user)
	if err != nil {
		log.Log.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to login right now"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) GetPreferences(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"preferences": preferencesOrEmpty(user.Preferences)})
}

func (s *Server) PutPreferences(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	normalized := news.NormalizeRawPreferences(req.Preferences)
	updated := s.store.UpdateUserPreferences(user.Email, normalized)
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": preferencesOrEmpty(updated.Preferences)})
}

func preferencesOrEmpty(preferences []string) []string {
	if preferences == nil {
		return []string{}
	}
	return preferences
}
