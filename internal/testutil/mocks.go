package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/repository"
)

// --- MockProvider ---

// MockProvider is a mock implementation of spoonacular.Provider. Call
// counters are tracked so tests can assert that soft paths skip the network.
type MockProvider struct {
	ValidateKeyFunc func(ctx context.Context) bool
	SearchFunc      func(ctx context.Context, ingredients string, number int) []models.RecipeSummary
	FetchDetailFunc func(ctx context.Context, recipeID int) (*models.RecipeDetail, bool)

	mu          sync.Mutex
	SearchCalls int
	DetailCalls int
}

func (m *MockProvider) ValidateKey(ctx context.Context) bool {
	if m.ValidateKeyFunc != nil {
		return m.ValidateKeyFunc(ctx)
	}
	return true
}

func (m *MockProvider) SearchByIngredients(ctx context.Context, ingredients string, number int) []models.RecipeSummary {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, ingredients, number)
	}
	return nil
}

func (m *MockProvider) FetchDetail(ctx context.Context, recipeID int) (*models.RecipeDetail, bool) {
	m.mu.Lock()
	m.DetailCalls++
	m.mu.Unlock()
	if m.FetchDetailFunc != nil {
		return m.FetchDetailFunc(ctx, recipeID)
	}
	return nil, false
}

// Calls returns the search and detail call counts.
func (m *MockProvider) Calls() (searches, details int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SearchCalls, m.DetailCalls
}

// --- MockUserRepo ---

// MockUserRepo is an in-memory implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*models.User

	CreateUserErr error
}

// NewMockUserRepo creates an empty MockUserRepo.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{nextID: 1, users: make(map[string]*models.User)}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	if _, exists := m.users[user.Username]; exists {
		return nil, repository.ErrUsernameTaken
	}
	stored := *user
	stored.ID = m.nextID
	m.nextID++
	m.users[user.Username] = &stored
	copied := stored
	return &copied, nil
}

func (m *MockUserRepo) GetUserByCredentials(username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[username]
	if !exists || user.PasswordHash != passwordHash {
		return nil, repository.NewNotFoundError("invalid username or password")
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.users[username]
	return exists, nil
}

// StoredUser returns the stored row for assertions.
func (m *MockUserRepo) StoredUser(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username]
}

// --- MockHistoryRepo ---

// MockHistoryRepo is an in-memory implementation of repository.HistoryRepo.
type MockHistoryRepo struct {
	mu       sync.Mutex
	nextID   uint
	Searches []models.SearchHistoryEntry
	Views    []models.ViewHistoryEntry
}

// NewMockHistoryRepo creates an empty MockHistoryRepo.
func NewMockHistoryRepo() *MockHistoryRepo {
	return &MockHistoryRepo{nextID: 1}
}

func (m *MockHistoryRepo) AddSearchHistory(entry *models.SearchHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextID
	m.nextID++
	m.Searches = append(m.Searches, *entry)
	return nil
}

func (m *MockHistoryRepo) GetSearchHistory(userID uint, limit int) ([]models.SearchHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []models.SearchHistoryEntry
	for i := len(m.Searches) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.Searches[i].UserID == userID {
			entries = append(entries, m.Searches[i])
		}
	}
	return entries, nil
}

func (m *MockHistoryRepo) ClearSearchHistory(userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []models.SearchHistoryEntry
	var removed int64
	for _, entry := range m.Searches {
		if entry.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	m.Searches = kept
	return removed, nil
}

func (m *MockHistoryRepo) AddViewHistory(entry *models.ViewHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextID
	m.nextID++
	m.Views = append(m.Views, *entry)
	return nil
}

func (m *MockHistoryRepo) GetViewHistory(userID uint, limit int) ([]models.ViewHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []models.ViewHistoryEntry
	for i := len(m.Views) - 1; i >= 0 && len(entries) < limit; i-- {
		if m.Views[i].UserID == userID {
			entries = append(entries, m.Views[i])
		}
	}
	return entries, nil
}

func (m *MockHistoryRepo) ClearViewHistory(userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []models.ViewHistoryEntry
	var removed int64
	for _, entry := range m.Views {
		if entry.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	m.Views = kept
	return removed, nil
}

// --- MockFavoriteRepo ---

type favoriteKey struct {
	userID   uint
	recipeID int
}

// MockFavoriteRepo is an in-memory implementation of repository.FavoriteRepo
// honoring the (user, recipe) uniqueness invariant.
type MockFavoriteRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[favoriteKey]models.FavoriteEntry
}

// NewMockFavoriteRepo creates an empty MockFavoriteRepo.
func NewMockFavoriteRepo() *MockFavoriteRepo {
	return &MockFavoriteRepo{nextID: 1, entries: make(map[favoriteKey]models.FavoriteEntry)}
}

func (m *MockFavoriteRepo) AddFavorite(entry *models.FavoriteEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := favoriteKey{userID: entry.UserID, recipeID: entry.RecipeID}
	if _, exists := m.entries[key]; exists {
		return false, nil
	}
	entry.ID = m.nextID
	m.nextID++
	m.entries[key] = *entry
	return true, nil
}

func (m *MockFavoriteRepo) RemoveFavorite(userID uint, recipeID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := favoriteKey{userID: userID, recipeID: recipeID}
	if _, exists := m.entries[key]; !exists {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *MockFavoriteRepo) IsFavorite(userID uint, recipeID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.entries[favoriteKey{userID: userID, recipeID: recipeID}]
	return exists, nil
}

func (m *MockFavoriteRepo) ListFavorites(userID uint) ([]models.FavoriteEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []models.FavoriteEntry
	for _, entry := range m.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})
	return entries, nil
}
