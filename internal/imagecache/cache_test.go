package imagecache

import (
	"bytes"
	"context"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/models"
)

func testCache(imageBaseURL string) *Cache {
	settings := config.DefaultProvider()
	if imageBaseURL != "" {
		settings.ImageBaseURL = imageBaseURL
	}
	settings.ImageTimeout = config.Duration(2 * time.Second)
	return New(settings)
}

func recipeWithImage(id int, ref string) models.EnrichedRecipe {
	return models.EnrichedRecipe{
		RecipeSummary: models.RecipeSummary{ID: id, Title: "Test", Image: ref},
	}
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 0x20, G: 0x80, B: 0x20, A: 0xFF})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestResolve_NoReferenceSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	cache := testCache(server.URL + "/")
	img := cache.Resolve(context.Background(), recipeWithImage(1, ""), 80, 60)

	if hits.Load() != 0 {
		t.Error("a recipe with no image reference must not issue a network call")
	}
	bounds := img.Bounds()
	if bounds.Dx() != 80 || bounds.Dy() != 60 {
		t.Errorf("placeholder is %dx%d, want 80x60", bounds.Dx(), bounds.Dy())
	}
}

func TestResolve_FetchesAndResizes(t *testing.T) {
	payload := encodeJPEG(t, 300, 200)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chicken-rice.jpg" {
			t.Errorf("fetched %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Write(payload)
	}))
	defer server.Close()

	cache := testCache(server.URL + "/")
	img := cache.Resolve(context.Background(), recipeWithImage(1, "chicken-rice.jpg"), 100, 100)

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("thumbnail is %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}
}

func TestResolve_MemoizesByRecipeID(t *testing.T) {
	var hits atomic.Int32
	payload := encodeJPEG(t, 120, 120)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(payload)
	}))
	defer server.Close()

	cache := testCache(server.URL + "/")
	recipe := recipeWithImage(1, "a.jpg")

	first := cache.Resolve(context.Background(), recipe, 100, 100)
	second := cache.Resolve(context.Background(), recipe, 100, 100)

	if hits.Load() != 1 {
		t.Errorf("fetches = %d, want 1 (memoized)", hits.Load())
	}
	if first != second {
		t.Error("memoized resolve should return the cached handle")
	}
}

func TestReset_PurgesEntries(t *testing.T) {
	var hits atomic.Int32
	payload := encodeJPEG(t, 120, 120)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(payload)
	}))
	defer server.Close()

	cache := testCache(server.URL + "/")
	recipe := recipeWithImage(1, "a.jpg")

	cache.Resolve(context.Background(), recipe, 100, 100)
	cache.Reset()
	cache.Resolve(context.Background(), recipe, 100, 100)

	if hits.Load() != 2 {
		t.Errorf("fetches = %d, want 2 after reset", hits.Load())
	}
}

func TestResolve_FailuresYieldPlaceholder(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not an image"))
	}))
	defer garbage.Close()

	for name, baseURL := range map[string]string{"not found": notFound.URL + "/", "decode error": garbage.URL + "/"} {
		cache := testCache(baseURL)
		img := cache.Resolve(context.Background(), recipeWithImage(1, "x.jpg"), 64, 64)
		bounds := img.Bounds()
		if bounds.Dx() != 64 || bounds.Dy() != 64 {
			t.Errorf("%s: got %dx%d, want 64x64 placeholder", name, bounds.Dx(), bounds.Dy())
		}
	}
}

func TestResolveURL(t *testing.T) {
	cache := testCache("https://images.example.com/recipes/")

	cases := map[string]string{
		"":                           "",
		"https://cdn.example.com/a":  "https://cdn.example.com/a",
		"http://cdn.example.com/a":   "http://cdn.example.com/a",
		"chicken-rice.jpg":           "https://images.example.com/recipes/chicken-rice.jpg",
	}
	for ref, want := range cases {
		if got := cache.ResolveURL(ref); got != want {
			t.Errorf("ResolveURL(%q) = %q, want %q", ref, got, want)
		}
	}
}

func TestPlaceholder_Dimensions(t *testing.T) {
	for _, size := range [][2]int{{100, 100}, {48, 64}, {0, 0}} {
		img := Placeholder(size[0], size[1])
		wantW, wantH := size[0], size[1]
		if wantW <= 0 {
			wantW = placeholderBase
		}
		if wantH <= 0 {
			wantH = placeholderBase
		}
		bounds := img.Bounds()
		if bounds.Dx() != wantW || bounds.Dy() != wantH {
			t.Errorf("Placeholder(%d,%d) is %dx%d", size[0], size[1], bounds.Dx(), bounds.Dy())
		}
	}
}

func TestPlaceholder_HasCaption(t *testing.T) {
	img := Placeholder(100, 100)

	// The caption must actually darken pixels near the center line.
	found := false
	for x := 0; x < 100 && !found; x++ {
		r, g, b, _ := img.At(x, 50).RGBA()
		if r != g || g != b {
			continue
		}
		if uint8(r>>8) < 0xF0 {
			found = true
		}
	}
	if !found {
		t.Error("placeholder center row has no caption pixels")
	}
}
