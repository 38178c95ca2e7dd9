package spoonacular

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pantrydesk/pantrydesk/internal/config"
	"github.com/pantrydesk/pantrydesk/internal/models"
)

func testSettings(baseURL string) *config.Provider {
	settings := config.DefaultProvider()
	settings.BaseURL = baseURL
	settings.ProbeTimeout = config.Duration(2 * time.Second)
	settings.SearchTimeout = config.Duration(2 * time.Second)
	settings.DetailTimeout = config.Duration(2 * time.Second)
	settings.RequestsPerSecond = 1000
	return settings
}

func TestValidateKey(t *testing.T) {
	var gotKey, gotNumber string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/complexSearch" {
			t.Errorf("probe hit %q", r.URL.Path)
		}
		gotKey = r.URL.Query().Get("apiKey")
		gotNumber = r.URL.Query().Get("number")
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	client := NewClient("key123", testSettings(server.URL))
	if !client.ValidateKey(context.Background()) {
		t.Error("ValidateKey should succeed on 200")
	}
	if gotKey != "key123" || gotNumber != "1" {
		t.Errorf("probe params: apiKey=%q number=%q", gotKey, gotNumber)
	}
}

func TestValidateKey_CollapsesToFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("badkey", testSettings(server.URL))
	if client.ValidateKey(context.Background()) {
		t.Error("ValidateKey should be false on non-200")
	}

	// A dead endpoint is also false, never a panic or error.
	server.Close()
	if client.ValidateKey(context.Background()) {
		t.Error("ValidateKey should be false on transport failure")
	}
}

func TestSearchByIngredients(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/findByIngredients" {
			t.Errorf("search hit %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("ranking") != "2" {
			t.Errorf("ranking = %q, want 2", query.Get("ranking"))
		}
		if query.Get("ignorePantry") != "false" {
			t.Errorf("ignorePantry = %q, want false", query.Get("ignorePantry"))
		}
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		fmt.Fprint(w, `[
			{"id":101,"title":"Chicken Rice","usedIngredientCount":3,"missedIngredientCount":1,"image":"chicken-rice.jpg"},
			{"id":102,"title":"Tomato Soup","usedIngredientCount":2,"missedIngredientCount":2,"image":"tomato-soup.jpg"}
		]`)
	}))
	defer server.Close()

	client := NewClient("key123", testSettings(server.URL))
	summaries := client.SearchByIngredients(context.Background(), "chicken, rice, tomato", 10)
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].ID != 101 || summaries[0].UsedIngredientCount != 3 {
		t.Errorf("summary[0] = %+v", summaries[0])
	}
}

func TestSearchByIngredients_SoftFail(t *testing.T) {
	statusServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer statusServer.Close()

	client := NewClient("key123", testSettings(statusServer.URL))
	if got := client.SearchByIngredients(context.Background(), "chicken", 10); got != nil {
		t.Errorf("non-200 should yield empty, got %v", got)
	}

	garbageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer garbageServer.Close()

	client = NewClient("key123", testSettings(garbageServer.URL))
	if got := client.SearchByIngredients(context.Background(), "chicken", 10); got != nil {
		t.Errorf("parse failure should yield empty, got %v", got)
	}
}

func TestFetchDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipes/101/information" {
			t.Errorf("detail hit %q", r.URL.Path)
		}
		if r.URL.Query().Get("includeNutrition") != "true" {
			t.Error("includeNutrition should be requested")
		}
		fmt.Fprint(w, `{
			"id":101,"title":"Chicken Rice","image":"https://img.example.com/101.jpg",
			"summary":"<b>Good</b> stuff","readyInMinutes":35,"servings":4,
			"healthScore":62,"diets":["gluten free"],
			"extendedIngredients":[{"id":1,"name":"chicken","original":"2 lbs chicken","amount":2,"unit":"lbs"}],
			"analyzedInstructions":[{"name":"","steps":[
				{"number":1,"step":"Cook it.",
				 "ingredients":[{"id":5006,"name":"chicken","localizedName":"chicken","image":"whole-chicken.jpg"}],
				 "equipment":[{"id":404645,"name":"frying pan","localizedName":"frying pan","image":"pan.png","temperature":{"number":200,"unit":"Celsius"}}]}
			]}]
		}`)
	}))
	defer server.Close()

	client := NewClient("key123", testSettings(server.URL))
	detail, ok := client.FetchDetail(context.Background(), 101)
	if !ok {
		t.Fatal("FetchDetail should succeed")
	}
	if detail.Title != "Chicken Rice" || detail.ReadyInMinutes != 35 {
		t.Errorf("detail = %+v", detail)
	}
	if len(detail.Ingredients) != 1 || detail.Ingredients[0].Name != "chicken" {
		t.Errorf("ingredients = %+v", detail.Ingredients)
	}
	step := detail.AnalyzedInstructions[0].Steps[0]
	if len(step.Ingredients) != 1 || step.Ingredients[0].Name != "chicken" {
		t.Errorf("step ingredients = %+v", step.Ingredients)
	}
	if len(step.Equipment) != 1 || step.Equipment[0].ID != 404645 {
		t.Errorf("step equipment = %+v", step.Equipment)
	}
	if len(detail.RawPayload) == 0 {
		t.Error("RawPayload should keep the original response")
	}
}

func TestFetchDetail_AbsentOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("key123", testSettings(server.URL))
	if detail, ok := client.FetchDetail(context.Background(), 12345); ok || detail != nil {
		t.Error("FetchDetail should be absent on 404")
	}
}

func TestFormatSummaryLine(t *testing.T) {
	summaries := []struct {
		title string
		want  string
	}{
		{"Chicken Rice", "• Chicken Rice (✓ 3 | ✗ 1)"},
		{"", "• No Title (✓ 3 | ✗ 1)"},
	}
	for _, tc := range summaries {
		summary := models.RecipeSummary{Title: tc.title, UsedIngredientCount: 3, MissedIngredientCount: 1}
		if got := FormatSummaryLine(summary); got != tc.want {
			t.Errorf("FormatSummaryLine = %q, want %q", got, tc.want)
		}
	}
}
