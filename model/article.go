package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// ArticleSource identifies the publication an article came from, as reported
// by the news provider.
type ArticleSource struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Article is a single news item. All fields except ID are supplied by the
// provider and treated as opaque beyond display. ID is assigned locally and
// is stable across refreshes of the same article.
type Article struct {
	ID          string        `json:"id"`
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage,omitempty"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content,omitempty"`
}

// EnsureID assigns the article its content-addressed identifier if it does
// not already carry one. The id is derived from the URL when present,
// otherwise from title and publish timestamp, so recomputation from the same
// article value always yields the same id.
func (a *Article) EnsureID() {
	if a.ID != "" {
		return
	}
	var sum [sha256.Size]byte
	if a.URL != "" {
		sum = sha256.Sum256([]byte("url:" + a.URL))
	} else {
		sum = sha256.Sum256([]byte("title:" + a.Title + "|" + a.PublishedAt))
	}
	a.ID = hex.EncodeToString(sum[:16])
}
