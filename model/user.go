package model

import "time"

// User is a registered account. Password holds the bcrypt hash, never the
// plaintext. Preferences are stored already normalized.
type User struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Password         string                `json:"password"`
	Preferences      []string              `json:"preferences"`
	ReadArticles     []UserArticleSnapshot `json:"readArticles,omitempty"`
	FavoriteArticles []UserArticleSnapshot `json:"favoriteArticles,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
}
