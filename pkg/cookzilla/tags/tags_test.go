package tags

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	if err := models.Seed(db); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(db, 20)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func seedTaggedRecipes(t *testing.T, db *gorm.DB, tagLabel string, titles ...string) *models.Tag {
	user := &models.User{Email: "alice@test.com", Username: "alice", PasswordHash: "x"}
	if err := models.CreateUser(db, user, nil); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	var tag models.Tag
	if err := db.Where("label = ?", tagLabel).First(&tag).Error; err != nil {
		t.Fatalf("Failed to load tag %q: %v", tagLabel, err)
	}

	for _, title := range titles {
		recipe := models.Recipe{AuthorID: user.ID, Title: title, Body: "cook it"}
		if err := db.Create(&recipe).Error; err != nil {
			t.Fatalf("Failed to create recipe: %v", err)
		}
		if err := models.TagRecipe(db, recipe.ID, tag.ID); err != nil {
			t.Fatalf("Failed to tag recipe: %v", err)
		}
	}
	return &tag
}

func TestListTagsWithCounts(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	seedTaggedRecipes(t, db, "Italian", "Carbonara", "Cacio e Pepe")

	req := httptest.NewRequest("GET", "/api/tags", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var tags []TagResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tags); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(tags) != len(models.DefaultTags) {
		t.Fatalf("Expected %d tags, got %d", len(models.DefaultTags), len(tags))
	}

	byLabel := map[string]int64{}
	for _, tag := range tags {
		byLabel[tag.Label] = tag.RecipeCount
	}
	if byLabel["Italian"] != 2 {
		t.Errorf("Expected 2 Italian recipes, got %d", byLabel["Italian"])
	}
	if byLabel["Vegan"] != 0 {
		t.Errorf("Expected 0 Vegan recipes, got %d", byLabel["Vegan"])
	}
}

func TestTagRecipes(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	tag := seedTaggedRecipes(t, db, "Soup", "Miso Soup", "Minestrone")

	req := httptest.NewRequest("GET", fmt.Sprintf("/api/tags/%d/recipes", tag.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Tag     string `json:"tag"`
		Recipes struct {
			Items []models.Recipe `json:"items"`
			Total int64           `json:"total"`
		} `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Tag != "Soup" {
		t.Errorf("Expected tag Soup, got %q", resp.Tag)
	}
	if resp.Recipes.Total != 2 {
		t.Errorf("Expected 2 recipes, got %d", resp.Recipes.Total)
	}
	// Oldest first
	if len(resp.Recipes.Items) == 2 && resp.Recipes.Items[0].Title != "Miso Soup" {
		t.Errorf("Expected chronological order, got %q first", resp.Recipes.Items[0].Title)
	}
}

func TestTagRecipesUnknownTag(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)

	req := httptest.NewRequest("GET", "/api/tags/99999/recipes", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
