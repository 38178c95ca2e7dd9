package models

import "time"

// User is the model for a local account. Rows are immutable after signup.
type User struct {
	ID           uint      `gorm:"primarykey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	APIKey       string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// SearchHistoryEntry records one ingredient search. Append-only.
type SearchHistoryEntry struct {
	ID           uint      `gorm:"primarykey"`
	UserID       uint      `gorm:"index;not null"`
	Ingredients  string    `gorm:"not null"`
	ResultsCount int       `gorm:"default:0"`
	SearchedAt   time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides gorm's pluralization to keep the historical schema name.
func (SearchHistoryEntry) TableName() string { return "search_history" }

// ViewHistoryEntry records one recipe view. Append-only; repeated views of
// the same recipe create repeated rows.
type ViewHistoryEntry struct {
	ID          uint      `gorm:"primarykey"`
	UserID      uint      `gorm:"index;not null"`
	RecipeID    int       `gorm:"not null"`
	RecipeTitle string    `gorm:"not null"`
	RecipeData  string    `gorm:"not null"`
	ViewedAt    time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides gorm's pluralization to keep the historical schema name.
func (ViewHistoryEntry) TableName() string { return "view_history" }

// FavoriteEntry is a saved recipe. A user can favorite a given recipe at
// most once; the composite unique index enforces it.
type FavoriteEntry struct {
	ID          uint      `gorm:"primarykey"`
	UserID      uint      `gorm:"uniqueIndex:idx_favorites_user_recipe;not null"`
	RecipeID    int       `gorm:"uniqueIndex:idx_favorites_user_recipe;not null"`
	RecipeTitle string    `gorm:"not null"`
	RecipeData  string    `gorm:"not null"`
	RecipeImage string
	Ingredients string
	SavedAt     time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides gorm's pluralization to keep the historical schema name.
func (FavoriteEntry) TableName() string { return "favorites" }
