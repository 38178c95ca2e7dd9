package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pantrydesk/pantrydesk/internal/app"
	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/db"
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"github.com/pantrydesk/pantrydesk/internal/service"
	"github.com/pantrydesk/pantrydesk/internal/spoonacular"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	isDev := os.Getenv("APP_ENV") != "production"
	logger.Init(isDev)
}

// Entry point for the desktop core. The GUI shell drives internal/app
// directly; this binary exercises the same boundary from the command line.
func main() {
	defer logger.Sync()

	var (
		signup         = flag.Bool("signup", false, "create the account before logging in")
		username       = flag.String("username", "", "account username")
		password       = flag.String("password", "", "account password")
		apiKey         = flag.String("apikey", "", "provider API key (signup only)")
		ingredients    = flag.String("ingredients", "", "comma-separated ingredients to search")
		showHistory    = flag.Bool("history", false, "print recent search history")
		showFavorites  = flag.Bool("favorites", false, "print saved favorites")
		resetHistories = flag.Bool("reset-histories", false, "wipe search/view history and favorites (accounts are kept)")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	}
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	provider, err := config.LoadProvider(cfg.EnvVars.ProviderSettings)
	if err != nil {
		logger.Get().Fatal("failed to load provider settings", zap.Error(err))
	}
	cfg.Provider = provider

	database, err := db.New(cfg.EnvVars.DatabasePath)
	if err != nil {
		logger.Get().Fatal("failed to open database", zap.Error(err))
	}

	if *resetHistories {
		if err := db.ResetHistories(database); err != nil {
			logger.Get().Fatal("failed to reset histories", zap.Error(err))
		}
		fmt.Println("history tables wiped; accounts preserved")
		return
	}

	application := app.New(cfg, database)
	defer application.Close()

	if *username == "" || *password == "" {
		logger.Get().Fatal("both -username and -password are required")
	}

	if *signup {
		key := *apiKey
		if key == "" {
			key = cfg.EnvVars.SpoonacularKey
		}
		if _, err := application.SignUp(*username, *password, key); err != nil {
			if errors.Is(err, service.ErrUsernameTaken) {
				logger.Get().Fatal("username is already taken", zap.String("username", *username))
			}
			logger.Get().Fatal("signup failed", zap.Error(err))
		}
		fmt.Printf("account %q created\n", *username)
	}

	session, ok := application.Login(*username, *password)
	if !ok {
		logger.Get().Fatal("invalid username or password")
	}

	ctx := context.Background()
	if !application.ValidateCredential(ctx) {
		logger.Get().Fatal("provider rejected the stored API key; update the account credential")
	}

	switch {
	case *ingredients != "":
		runSearch(application, *ingredients)
	case *showHistory:
		printHistory(application, session.UserID)
	case *showFavorites:
		printFavorites(application, session.UserID)
	default:
		fmt.Println("logged in; pass -ingredients, -history, or -favorites")
	}
}

// runSearch starts a search session and drains the delivery channel until
// the enrichment batch and its thumbnails have arrived.
func runSearch(application *app.App, ingredients string) {
	sessionID, ok := application.StartSearch(ingredients)
	if !ok {
		logger.Get().Fatal("could not start the search; try again")
	}

	const thumbSize = 100
	pending := 1 // the enrichment batch itself

	for result := range application.Results() {
		if result.SessionID != sessionID {
			continue
		}

		switch result.Kind {
		case app.KindEnrichment:
			pending--
			enriched, _ := result.Value.([]models.EnrichedRecipe)
			if len(enriched) == 0 {
				fmt.Println("no recipes found")
				return
			}
			for slot, recipe := range enriched {
				fmt.Println(spoonacular.FormatSummaryLine(recipe.RecipeSummary))
				if recipe.HasDetail() {
					fmt.Printf("    ready in %d min, serves %d\n", recipe.Detail.ReadyInMinutes, recipe.Detail.Servings)
				}
				if application.RequestImage(sessionID, slot, recipe, thumbSize, thumbSize) {
					pending++
				}
			}
		case app.KindThumbnail:
			pending--
		}

		if pending == 0 {
			return
		}
	}
}

func printHistory(application *app.App, userID uint) {
	records, err := application.History.SearchHistory(userID, 10)
	if err != nil {
		logger.Get().Fatal("failed to read search history", zap.Error(err))
	}
	for _, record := range records {
		fmt.Printf("%s  %q (%d results)\n", record.SearchedAt.Format("2006-01-02 15:04"), record.Ingredients, record.ResultsCount)
	}
}

func printFavorites(application *app.App, userID uint) {
	records, err := application.Favorites.ListFavorites(userID)
	if err != nil {
		logger.Get().Fatal("failed to read favorites", zap.Error(err))
	}
	for _, record := range records {
		fmt.Printf("%s  %s (recipe %d)\n", record.SavedAt.Format("2006-01-02 15:04"), record.RecipeTitle, record.RecipeID)
	}
}
