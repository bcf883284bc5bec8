package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsdeck/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() model.User {
	return model.User{
		ID:          "u-1",
		Name:        "Clark Kent",
		Email:       "Clark@Superman.com",
		Password:    "$2a$10$hash",
		Preferences: []string{"movies", "comics"},
		CreatedAt:   time.Now().UTC(),
	}
}

func TestSaveAndFindUser(t *testing.T) {
	s := NewStore(t.TempDir())
	defer s.Stop()

	s.SaveUser(testUser())

	// Lookup is case and whitespace insensitive on the email.
	found := s.FindUserByEmail("  CLARK@superman.com ")
	require.NotNil(t, found)
	assert.Equal(t, "clark@superman.com", found.Email)
	assert.Equal(t, []string{"movies", "comics"}, found.Preferences)

	assert.Nil(t, s.FindUserByEmail("nobody@example.com"))
	assert.Nil(t, s.FindUserByEmail(""))
}

func TestUpdateUserPreferences(t *testing.T) {
	s := NewStore(t.TempDir())
	defer s.Stop()
	s.SaveUser(testUser())

	updated := s.UpdateUserPreferences("clark@superman.com", []string{"games"})
	require.NotNil(t, updated)
	assert.Equal(t, []string{"games"}, updated.Preferences)

	assert.Nil(t, s.UpdateUserPreferences("nobody@example.com", []string{"games"}))
}

func TestReadCollectionMovesDuplicateToFront(t *testing.T) {
	s := NewStore(t.TempDir())
	defer s.Stop()
	s.SaveUser(testUser())

	first := model.UserArticleSnapshot{ID: "a-1", Title: "first"}
	second := model.UserArticleSnapshot{ID: "a-2", Title: "second"}

	require.NoError(t, s.AddReadArticle("clark@superman.com", first))
	require.NoError(t, s.AddReadArticle("clark@superman.com", second))
	require.NoError(t, s.AddReadArticle("clark@superman.com", first))

	got := s.GetReadArticles("clark@superman.com")
	require.Len(t, got, 2)
	assert.Equal(t, "a-1", got[0].ID)
	assert.Equal(t, "a-2", got[1].ID)
}

func TestFavoriteCollectionIsIndependentOfRead(t *testing.T) {
	s := NewStore(t.TempDir())
	defer s.Stop()
	s.SaveUser(testUser())

	snap := model.UserArticleSnapshot{ID: "a-1", Title: "first"}
	require.NoError(t, s.AddFavoriteArticle("clark@superman.com", snap))

	assert.Len(t, s.GetFavoriteArticles("clark@superman.com"), 1)
	assert.Empty(t, s.GetReadArticles("clark@superman.com"))
}

func TestAddArticleForUnknownUser(t *testing.T) {
	s := NewStore(t.TempDir())
	defer s.Stop()

	err := s.AddReadArticle("nobody@example.com", model.UserArticleSnapshot{ID: "a-1"})
	assert.Error(t, err)
}

func TestFlushAndReload(t *testing.T) {
	dir := t.TempDir()

	s := NewStore(dir)
	s.SaveUser(testUser())
	require.NoError(t, s.AddReadArticle("clark@superman.com", model.UserArticleSnapshot{ID: "a-1", Title: "first"}))
	s.Stop()

	reloaded := NewStore(dir)
	defer reloaded.Stop()
	found := reloaded.FindUserByEmail("clark@superman.com")
	require.NotNil(t, found)
	assert.Equal(t, "Clark Kent", found.Name)
	require.Len(t, found.ReadArticles, 1)
	assert.Equal(t, "a-1", found.ReadArticles[0].ID)
}

func TestCorruptStoreFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveUser(testUser())
	s.Stop()

	// Clobber the file, then reload.
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFileName), []byte("{not json"), 0o644))
	reloaded := NewStore(dir)
	defer reloaded.Stop()
	assert.Nil(t, reloaded.FindUserByEmail("clark@superman.com"))
}

func TestDebouncedWriteLands(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.SaveUser(testUser())

	// The debounce window is half a second; wait past it and reload without
	// an explicit flush.
	assert.Eventually(t, func() bool {
		probe := NewStore(dir)
		defer probe.Stop()
		return probe.FindUserByEmail("clark@superman.com") != nil
	}, 3*time.Second, 100*time.Millisecond)
	s.Stop()
}
