package model

import "github.com/jinzhu/copier"

// UserArticleSnapshot is the reduced projection of an Article stored in a
// user's read and favorite collections.
type UserArticleSnapshot struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url"`
	Source      ArticleSource `json:"source"`
	PublishedAt string        `json:"publishedAt"`
}

// SnapshotOf projects an article down to the fields kept in user collections.
func SnapshotOf(a Article) UserArticleSnapshot {
	var s UserArticleSnapshot
	copier.Copy(&s, &a)
	return s
}
