package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// userAgent identifies outbound requests; some image hosts reject the
// default Go agent.
const userAgent = "pantrydesk/1.0 (recipe desktop client)"

// Client talks to the Spoonacular API. It holds no local state beyond the
// credential and throttle; all calls are pure request/response.
type Client struct {
	apiKey     string
	settings   *config.Provider
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client for the given credential. The limiter throttles
// every outbound call; detail fetches in particular are provider-rate-limited.
func NewClient(apiKey string, settings *config.Provider) *Client {
	if settings == nil {
		settings = config.DefaultProvider()
	}
	return &Client{
		apiKey:     apiKey,
		settings:   settings,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), settings.RequestBurst),
	}
}

// ValidateKey issues a one-result complexSearch probe. Any transport error or
// non-200 status collapses to false; it never returns an error.
func (c *Client) ValidateKey(ctx context.Context) bool {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("number", "1")

	ctx, cancel := context.WithTimeout(ctx, c.settings.ProbeTimeout.Std())
	defer cancel()

	resp, err := c.get(ctx, "/recipes/complexSearch", params)
	if err != nil {
		logger.Get().Warn("credential probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// SearchByIngredients calls findByIngredients with the ranking mode that
// maximizes used-ingredient coverage and with pantry items counted. It fails
// softly: any transport or parse error yields an empty slice, logged for the
// caller to surface.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients string, number int) []models.RecipeSummary {
	if number <= 0 {
		number = c.settings.SearchNumber
	}

	params := url.Values{}
	params.Set("ingredients", ingredients)
	params.Set("number", fmt.Sprintf("%d", number))
	params.Set("apiKey", c.apiKey)
	params.Set("ranking", fmt.Sprintf("%d", c.settings.Ranking))
	params.Set("ignorePantry", fmt.Sprintf("%t", c.settings.IgnorePantry))

	ctx, cancel := context.WithTimeout(ctx, c.settings.SearchTimeout.Std())
	defer cancel()

	body, err := c.getBody(ctx, "/recipes/findByIngredients", params)
	if err != nil {
		logger.Get().Warn("ingredient search failed", zap.String("ingredients", ingredients), zap.Error(err))
		return nil
	}

	var summaries []models.RecipeSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		logger.Get().Warn("failed to parse search response", zap.Error(err))
		return nil
	}

	return summaries
}

// FetchDetail retrieves the full information record for one recipe. It
// returns ok=false when the provider has no data or the call fails; callers
// must treat that as degraded, not fatal.
func (c *Client) FetchDetail(ctx context.Context, recipeID int) (*models.RecipeDetail, bool) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("includeNutrition", "true")

	ctx, cancel := context.WithTimeout(ctx, c.settings.DetailTimeout.Std())
	defer cancel()

	body, err := c.getBody(ctx, fmt.Sprintf("/recipes/%d/information", recipeID), params)
	if err != nil {
		logger.Get().Warn("detail fetch failed", zap.Int("recipe_id", recipeID), zap.Error(err))
		return nil, false
	}

	var detail models.RecipeDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		logger.Get().Warn("failed to parse detail response", zap.Int("recipe_id", recipeID), zap.Error(err))
		return nil, false
	}

	// Keep the original payload verbatim for fields not otherwise modeled.
	detail.RawPayload = json.RawMessage(body)

	return &detail, true
}

// get performs a throttled GET against the provider.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.settings.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	return c.httpClient.Do(req)
}

// getBody performs a throttled GET and returns the body of a 200 response.
func (c *Client) getBody(ctx context.Context, path string, params url.Values) ([]byte, error) {
	resp, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// FormatSummaryLine renders a one-line display string for a search hit.
func FormatSummaryLine(summary models.RecipeSummary) string {
	title := summary.Title
	if title == "" {
		title = "No Title"
	}
	return fmt.Sprintf("• %s (✓ %d | ✗ %d)", title, summary.UsedIngredientCount, summary.MissedIngredientCount)
}
