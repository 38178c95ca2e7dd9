package imagecache

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/logger"
	"github.com/pantrydesk/pantrydesk/internal/models"
	"go.uber.org/zap"
)

const userAgent = "pantrydesk/1.0 (recipe desktop client)"

// Cache resolves recipe thumbnails for the lifetime of one search session.
// Resolve never fails: whatever goes wrong, the caller gets an image of the
// requested dimensions. The owner constructs one Cache per search context
// and resets it when a new search starts.
type Cache struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	mu      sync.Mutex
	entries map[int]image.Image
}

// New creates an empty Cache using the provider's image-hosting settings.
func New(settings *config.Provider) *Cache {
	if settings == nil {
		settings = config.DefaultProvider()
	}
	return &Cache{
		baseURL:    settings.ImageBaseURL,
		httpClient: &http.Client{},
		timeout:    settings.ImageTimeout.Std(),
		entries:    make(map[int]image.Image),
	}
}

// Resolve returns the thumbnail for a recipe, fetching and resizing it on
// first use and memoizing by recipe id afterwards. A recipe with no image
// reference skips the network entirely and yields a placeholder.
func (c *Cache) Resolve(ctx context.Context, recipe models.EnrichedRecipe, width, height int) image.Image {
	c.mu.Lock()
	if img, ok := c.entries[recipe.ID]; ok {
		c.mu.Unlock()
		return img
	}
	c.mu.Unlock()

	img := c.load(ctx, recipe.ImageRef(), width, height)

	c.mu.Lock()
	c.entries[recipe.ID] = img
	c.mu.Unlock()

	return img
}

// Reset purges all memoized thumbnails. Called at the start of each new
// search so stale thumbnails cannot leak into a new result set.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[int]image.Image)
	c.mu.Unlock()
}

// ResolveURL maps a recipe image reference to a fetchable URL: absolute URLs
// pass through, bare filenames get the provider's hosting prefix, and an
// empty reference stays empty.
func (c *Cache) ResolveURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + ref
}

// load fetches, decodes, and resizes one image, degrading to a placeholder
// on any failure.
func (c *Cache) load(ctx context.Context, ref string, width, height int) image.Image {
	url := c.ResolveURL(ref)
	if url == "" {
		return Placeholder(width, height)
	}

	data, err := c.fetch(ctx, url)
	if err != nil {
		logger.Get().Warn("image fetch failed", zap.String("url", url), zap.Error(err))
		return Placeholder(width, height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Get().Warn("image decode failed", zap.String("url", url), zap.Error(err))
		return Placeholder(width, height)
	}

	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// fetch GETs the image bytes with a bounded timeout and a descriptive agent
// header; some hosts reject default-agent requests.
func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
