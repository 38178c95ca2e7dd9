package app

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/imagecache"
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/repository"
	"github.com/pantrydesk/pantrydesk/internal/service"
	"github.com/pantrydesk/pantrydesk/internal/spoonacular"
	"github.com/pantrydesk/pantrydesk/internal/tasks"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result kinds delivered through the runner.
const (
	KindEnrichment = "enrichment"
	KindThumbnail  = "thumbnail"
)

// App binds the persistence surface, the enrichment pipeline, and the
// background runner behind the boundary the UI consumes. Store operations
// are synchronous and safe to call from the interactive loop; enrichment and
// thumbnails are delivered asynchronously through Results.
type App struct {
	Cfg       *config.Config
	Users     *service.UserService
	History   *service.HistoryService
	Favorites *service.FavoriteService
	Runner    *tasks.Runner

	mu      sync.Mutex
	user    *service.Session
	recipes *service.RecipeService
	images  *imagecache.Cache
}

// New wires the application from an open database connection.
func New(cfg *config.Config, database *gorm.DB) *App {
	return &App{
		Cfg:       cfg,
		Users:     service.NewUserService(repository.NewUserRepository(database)),
		History:   service.NewHistoryService(repository.NewHistoryRepository(database)),
		Favorites: service.NewFavoriteService(repository.NewFavoriteRepository(database)),
		Runner:    tasks.NewRunner(cfg.EnvVars.Workers, 64),
	}
}

// SignUp creates an account. A duplicate username surfaces as
// service.ErrUsernameTaken for the caller to message.
func (a *App) SignUp(username, password, apiKey string) (*models.User, error) {
	return a.Users.CreateUser(username, password, apiKey)
}

// Login authenticates and, on success, binds the enrichment pipeline to the
// user's provider credential.
func (a *App) Login(username, password string) (*service.Session, bool) {
	session, ok := a.Users.Authenticate(username, password)
	if !ok {
		return nil, false
	}

	client := spoonacular.NewClient(session.APIKey, a.Cfg.Provider)

	a.mu.Lock()
	a.user = session
	a.recipes = service.NewRecipeService(a.Cfg.Provider, client)
	a.mu.Unlock()

	return session, true
}

// ValidateCredential probes the provider with the logged-in user's key.
func (a *App) ValidateCredential(ctx context.Context) bool {
	a.mu.Lock()
	recipes := a.recipes
	a.mu.Unlock()
	if recipes == nil {
		return false
	}
	return recipes.Source.ValidateKey(ctx)
}

// StartSearch begins a new search session: it supersedes any in-flight
// session, gives the session a fresh image cache, and queues the enrichment
// batch. The enriched results arrive as one ordered KindEnrichment Result;
// the search is persisted to history as a side effect. The returned session
// id tags every Result belonging to this search; ok is false when the
// enrichment batch was not queued, so no Result for this session will ever
// arrive and the caller must not wait for one.
func (a *App) StartSearch(ingredients string) (string, bool) {
	sessionID := uuid.New().String()

	a.mu.Lock()
	user := a.user
	recipes := a.recipes
	// A fresh cache per search: thumbnails from the previous query must not
	// leak into the new result set.
	a.images = imagecache.New(a.Cfg.Provider)
	a.mu.Unlock()

	a.Runner.BeginSession(sessionID)

	if recipes == nil {
		logger.Get().Warn("search requested before login", zap.String("session_id", sessionID))
		return sessionID, false
	}

	queued := a.Runner.Submit(tasks.Job{
		SessionID: sessionID,
		Kind:      KindEnrichment,
		Run: func(ctx context.Context) interface{} {
			enriched := recipes.Enrich(ctx, ingredients, 0)
			if user != nil {
				if err := a.History.RecordSearch(user.UserID, ingredients, len(enriched)); err != nil {
					logger.WithSession(sessionID).Error("failed to record search", zap.Error(err))
				}
			}
			return enriched
		},
	})

	return sessionID, queued
}

// RequestImage queues a thumbnail resolution for one result slot. The
// completion arrives as a KindThumbnail Result carrying an image.Image; a
// completion from a superseded session is dropped before delivery.
func (a *App) RequestImage(sessionID string, slot int, recipe models.EnrichedRecipe, width, height int) bool {
	a.mu.Lock()
	cache := a.images
	a.mu.Unlock()
	if cache == nil {
		return false
	}

	return a.Runner.Submit(tasks.Job{
		SessionID: sessionID,
		Kind:      KindThumbnail,
		Slot:      slot,
		Run: func(ctx context.Context) interface{} {
			return cache.Resolve(ctx, recipe, width, height)
		},
	})
}

// Results is the single delivery point for background completions; only the
// interactive loop should drain it.
func (a *App) Results() <-chan tasks.Result {
	return a.Runner.Results()
}

// Close stops the background workers.
func (a *App) Close() {
	a.Runner.Close()
}
