package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/pantrydesk/pantrydesk/internal/db"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return database
}

func TestUserRepository_CreateAndConflict(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	first, err := repo.CreateUser(&models.User{Username: "alice", PasswordHash: "digest1", APIKey: "key123"})
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if first.ID == 0 {
		t.Error("created user should get an id")
	}

	_, err = repo.CreateUser(&models.User{Username: "alice", PasswordHash: "digest2", APIKey: "key456"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate username error = %v, want ErrUsernameTaken", err)
	}

	// The original row is untouched.
	stored, err := repo.GetUserByCredentials("alice", "digest1")
	if err != nil {
		t.Fatalf("GetUserByCredentials error: %v", err)
	}
	if stored.APIKey != "key123" {
		t.Errorf("APIKey = %q, want 'key123'", stored.APIKey)
	}
}

func TestUserRepository_UsernameExists(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	exists, err := repo.UsernameExists("alice")
	if err != nil {
		t.Fatalf("UsernameExists error: %v", err)
	}
	if exists {
		t.Error("username should not exist before creation")
	}

	if _, err := repo.CreateUser(&models.User{Username: "alice", PasswordHash: "digest1", APIKey: "k"}); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	exists, err = repo.UsernameExists("alice")
	if err != nil {
		t.Fatalf("UsernameExists error: %v", err)
	}
	if !exists {
		t.Error("username should exist after creation")
	}
}

func TestUserRepository_CredentialsDoNotLeakWhichFieldFailed(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	if _, err := repo.CreateUser(&models.User{Username: "alice", PasswordHash: "digest1", APIKey: "k"}); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	_, errWrongPassword := repo.GetUserByCredentials("alice", "bad")
	_, errWrongUsername := repo.GetUserByCredentials("nobody", "digest1")

	var notFound NotFoundError
	if !errors.As(errWrongPassword, &notFound) {
		t.Errorf("wrong password error = %v", errWrongPassword)
	}
	if errWrongPassword == nil || errWrongUsername == nil ||
		errWrongPassword.Error() != errWrongUsername.Error() {
		t.Error("wrong-username and wrong-password must be indistinguishable")
	}
}

func TestHistoryRepository_SearchHistoryOrderAndClear(t *testing.T) {
	repo := NewHistoryRepository(openTestDB(t))

	for i, query := range []string{"chicken", "rice", "tomato"} {
		err := repo.AddSearchHistory(&models.SearchHistoryEntry{
			UserID:       1,
			Ingredients:  query,
			ResultsCount: i,
		})
		if err != nil {
			t.Fatalf("AddSearchHistory error: %v", err)
		}
	}
	if err := repo.AddSearchHistory(&models.SearchHistoryEntry{UserID: 2, Ingredients: "beef"}); err != nil {
		t.Fatalf("AddSearchHistory error: %v", err)
	}

	entries, err := repo.GetSearchHistory(1, 2)
	if err != nil {
		t.Fatalf("GetSearchHistory error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit not applied: got %d entries", len(entries))
	}
	// Auto timestamps within one test tick can collide; ids break the tie in
	// insertion order, so just assert nothing older than the window shows up.
	for _, entry := range entries {
		if entry.UserID != 1 {
			t.Errorf("got another user's entry: %+v", entry)
		}
	}

	removed, err := repo.ClearSearchHistory(1)
	if err != nil {
		t.Fatalf("ClearSearchHistory error: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	remaining, _ := repo.GetSearchHistory(2, 10)
	if len(remaining) != 1 {
		t.Error("other users' rows must survive a clear")
	}
}

func TestHistoryRepository_ViewHistoryAppendOnly(t *testing.T) {
	repo := NewHistoryRepository(openTestDB(t))

	for i := 0; i < 2; i++ {
		err := repo.AddViewHistory(&models.ViewHistoryEntry{
			UserID:      1,
			RecipeID:    312,
			RecipeTitle: "Chicken Rice",
			RecipeData:  `{"id":312}`,
		})
		if err != nil {
			t.Fatalf("AddViewHistory error: %v", err)
		}
	}

	entries, err := repo.GetViewHistory(1, 10)
	if err != nil {
		t.Fatalf("GetViewHistory error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("repeated views should create repeated rows, got %d", len(entries))
	}

	removed, _ := repo.ClearViewHistory(1)
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestFavoriteRepository_UniquePair(t *testing.T) {
	repo := NewFavoriteRepository(openTestDB(t))

	entry := func() *models.FavoriteEntry {
		return &models.FavoriteEntry{
			UserID:      1,
			RecipeID:    312,
			RecipeTitle: "Chicken Rice",
			RecipeData:  `{"id":312}`,
			Ingredients: "chicken, rice",
		}
	}

	added, err := repo.AddFavorite(entry())
	if err != nil || !added {
		t.Fatalf("first AddFavorite = (%v, %v), want (true, nil)", added, err)
	}

	added, err = repo.AddFavorite(entry())
	if err != nil {
		t.Fatalf("duplicate AddFavorite error: %v", err)
	}
	if added {
		t.Error("duplicate pair should report already-exists, not added")
	}

	favorites, _ := repo.ListFavorites(1)
	if len(favorites) != 1 {
		t.Errorf("got %d rows for the pair, want exactly 1", len(favorites))
	}

	// Same recipe under a different user is a different pair.
	other := entry()
	other.UserID = 2
	if added, _ := repo.AddFavorite(other); !added {
		t.Error("another user favoriting the same recipe must be allowed")
	}
}

func TestFavoriteRepository_RemoveAndIs(t *testing.T) {
	repo := NewFavoriteRepository(openTestDB(t))

	if removed, _ := repo.RemoveFavorite(1, 312); removed {
		t.Error("removing a non-existent pair should be false")
	}

	_, _ = repo.AddFavorite(&models.FavoriteEntry{UserID: 1, RecipeID: 312, RecipeTitle: "t", RecipeData: "{}"})

	if fav, _ := repo.IsFavorite(1, 312); !fav {
		t.Error("IsFavorite should be true after add")
	}
	if removed, _ := repo.RemoveFavorite(1, 312); !removed {
		t.Error("RemoveFavorite should report the deleted row")
	}
	if fav, _ := repo.IsFavorite(1, 312); fav {
		t.Error("IsFavorite should be false after remove")
	}
}
