// Package store persists user records as a single JSON file. The whole user
// map lives in memory; mutations schedule a debounced write so bursts of
// updates produce one disk write instead of many.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"newsdeck/model"
	"newsdeck/utils/log"

	"github.com/pkg/errors"
)

const (
	usersFileName = "users.json"
	writeDebounce = 500 * time.Millisecond
)

// Store is the user-record collaborator. Users are keyed by normalized
// email. A missing or corrupt users file degrades to an empty store rather
// than failing startup.
type Store struct {
	dir string

	mu    sync.RWMutex
	users map[string]model.User

	timerMu sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewStore(dir string) *Store {
	s := &Store{
		dir:   dir,
		users: map[string]model.User{},
	}
	s.loadFromDisk()
	return s
}

// NormalizeEmail canonicalizes an email address for use as a store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) usersFile() string {
	return filepath.Join(s.dir, usersFileName)
}

func (s *Store) loadFromDisk() {
	contents, err := os.ReadFile(s.usersFile())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Log.Warnf("unable to read user store: %v", err)
		}
		return
	}
	parsed := map[string]model.User{}
	if err := json.Unmarshal(contents, &parsed); err != nil {
		log.Log.Warnf("unable to parse user store, starting empty: %v", err)
		return
	}
	s.users = parsed
}

// FindUserByEmail returns a copy of the stored user, or nil when absent.
func (s *Store) FindUserByEmail(email string) *model.User {
	key := NormalizeEmail(email)
	if key == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[key]
	if !ok {
		return nil
	}
	return &user
}

// SaveUser inserts or replaces the record for the user's email and schedules
// a write.
func (s *Store) SaveUser(user model.User) model.User {
	user.Email = NormalizeEmail(user.Email)
	s.mu.Lock()
	s.users[user.Email] = user
	s.mu.Unlock()
	s.scheduleWrite()
	return user
}

// UpdateUserPreferences replaces the preference set of an existing user.
// Returns nil when the user does not exist.
func (s *Store) UpdateUserPreferences(email string, preferences []string) *model.User {
	key := NormalizeEmail(email)
	s.mu.Lock()
	user, ok := s.users[key]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	user.Preferences = preferences
	s.users[key] = user
	s.mu.Unlock()
	s.scheduleWrite()
	return &user
}

// AddReadArticle records a snapshot in the user's read collection,
// most-recently-touched first. Re-adding an id moves it to the front instead
// of duplicating it.
func (s *Store) AddReadArticle(email string, snapshot model.UserArticleSnapshot) error {
	return s.addToCollection(email, snapshot, false)
}

// AddFavoriteArticle is AddReadArticle for the favorites collection.
func (s *Store) AddFavoriteArticle(email string, snapshot model.UserArticleSnapshot) error {
	return s.addToCollection(email, snapshot, true)
}

func (s *Store) addToCollection(email string, snapshot model.UserArticleSnapshot, favorite bool) error {
	key := NormalizeEmail(email)
	s.mu.Lock()
	user, ok := s.users[key]
	if !ok {
		s.mu.Unlock()
		return errors.Errorf("no user with email %s", key)
	}
	if favorite {
		user.FavoriteArticles = moveToFront(user.FavoriteArticles, snapshot)
	} else {
		user.ReadArticles = moveToFront(user.ReadArticles, snapshot)
	}
	s.users[key] = user
	s.mu.Unlock()
	s.scheduleWrite()
	return nil
}

// moveToFront prepends the snapshot, dropping any existing entry with the
// same id so the collection holds at most one snapshot per article.
func moveToFront(collection []model.UserArticleSnapshot, snapshot model.UserArticleSnapshot) []model.UserArticleSnapshot {
	out := make([]model.UserArticleSnapshot, 0, len(collection)+1)
	out = append(out, snapshot)
	for _, existing := range collection {
		if existing.ID != snapshot.ID {
			out = append(out, existing)
		}
	}
	return out
}

// GetReadArticles returns a copy of the user's read collection,
// most-recent-first. An unknown user yields an empty slice.
func (s *Store) GetReadArticles(email string) []model.UserArticleSnapshot {
	return s.collection(email, false)
}

// GetFavoriteArticles is GetReadArticles for favorites.
func (s *Store) GetFavoriteArticles(email string) []model.UserArticleSnapshot {
	return s.collection(email, true)
}

func (s *Store) collection(email string, favorite bool) []model.UserArticleSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[NormalizeEmail(email)]
	if !ok {
		return []model.UserArticleSnapshot{}
	}
	src := user.ReadArticles
	if favorite {
		src = user.FavoriteArticles
	}
	out := make([]model.UserArticleSnapshot, len(src))
	copy(out, src)
	return out
}

// scheduleWrite arms (or re-arms) the debounce timer. Writes land at most
// once per debounce window no matter how many mutations occur inside it.
func (s *Store) scheduleWrite() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(writeDebounce, func() {
		if err := s.Flush(); err != nil {
			log.Log.Warnf("unable to persist users: %v", err)
		}
	})
}

// Flush writes the current user map to disk immediately.
func (s *Store) Flush() error {
	s.mu.RLock()
	payload, err := json.MarshalIndent(s.users, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode user store")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	if err := os.WriteFile(s.usersFile(), payload, 0o644); err != nil {
		return errors.Wrap(err, "write user store")
	}
	return nil
}

// Stop cancels any pending debounced write and flushes once. Call on
// shutdown.
func (s *Store) Stop() {
	s.timerMu.Lock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerMu.Unlock()
	if err := s.Flush(); err != nil {
		log.Log.Warnf("unable to persist users on shutdown: %v", err)
	}
}
