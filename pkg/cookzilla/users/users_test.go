package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
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
	h := NewHandler(db, 20, 50)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string) (*models.User, string) {
	hashedPassword, _ := auth.HashPassword("password123")
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := models.CreateUser(db, user, nil); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return user, token
}

func createTestRecipe(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Recipe {
	recipe := &models.Recipe{AuthorID: authorID, Title: title, Body: "cook it"}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create test recipe: %v", err)
	}
	return recipe
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, _ := createTestUser(t, db, "alice@test.com", "alice")
	createTestRecipe(t, db, alice.ID, "Carbonara")
	createTestRecipe(t, db, alice.ID, "Cacio e Pepe")

	w := doJSON(t, r, "GET", "/api/users/alice", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var profile ProfileResponse
	json.Unmarshal(w.Body.Bytes(), &profile)
	if profile.Username != "alice" {
		t.Errorf("Expected username alice, got %q", profile.Username)
	}
	if profile.Recipes.Total != 2 {
		t.Errorf("Expected 2 recipes, got %d", profile.Recipes.Total)
	}

	w = doJSON(t, r, "GET", "/api/users/nobody", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown user, got %d", w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, token := createTestUser(t, db, "alice@test.com", "alice")

	w := doJSON(t, r, "PUT", "/api/profile", token, gin.H{
		"name":     "Alice Smith",
		"about_me": "I cook pasta",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.User
	db.First(&stored, alice.ID)
	if stored.Name != "Alice Smith" || stored.AboutMe != "I cook pasta" {
		t.Errorf("Expected profile fields to update, got %q / %q", stored.Name, stored.AboutMe)
	}
}

func TestFollowEndpoints(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, aliceToken := createTestUser(t, db, "alice@test.com", "alice")
	bob, _ := createTestUser(t, db, "bob@test.com", "bob")

	w := doJSON(t, r, "POST", "/api/users/bob/follow", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	following, _ := models.IsFollowing(db, alice.ID, bob.ID)
	if !following {
		t.Error("Expected alice to follow bob")
	}

	// Bob now has two followers: himself and alice
	w = doJSON(t, r, "GET", "/api/users/bob/followers", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var page pagination.Page[FollowEntry]
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 2 {
		t.Errorf("Expected 2 followers, got %d", page.Total)
	}

	w = doJSON(t, r, "DELETE", "/api/users/bob/follow", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	following, _ = models.IsFollowing(db, alice.ID, bob.ID)
	if following {
		t.Error("Expected alice to have unfollowed bob")
	}
}

func TestFollowRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	createTestUser(t, db, "bob@test.com", "bob")

	w := doJSON(t, r, "POST", "/api/users/bob/follow", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}
}

func TestFeedScope(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, aliceToken := createTestUser(t, db, "alice@test.com", "alice")
	bob, _ := createTestUser(t, db, "bob@test.com", "bob")
	carol, _ := createTestUser(t, db, "carol@test.com", "carol")

	own := createTestRecipe(t, db, alice.ID, "Carbonara")
	followed := createTestRecipe(t, db, bob.ID, "Ramen")
	createTestRecipe(t, db, carol.ID, "Tacos")

	if err := models.FollowUser(db, alice.ID, bob.ID); err != nil {
		t.Fatalf("FollowUser failed: %v", err)
	}

	w := doJSON(t, r, "GET", "/api/feed", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var page pagination.Page[models.Recipe]
	json.Unmarshal(w.Body.Bytes(), &page)
	if page.Total != 2 {
		t.Fatalf("Expected 2 feed recipes, got %d", page.Total)
	}
	seen := map[uint]bool{}
	for _, recipe := range page.Items {
		seen[recipe.ID] = true
	}
	if !seen[own.ID] {
		t.Error("Expected own recipe in the feed via the self-follow edge")
	}
	if !seen[followed.ID] {
		t.Error("Expected followed author's recipe in the feed")
	}
}

func TestFeedRanked(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, aliceToken := createTestUser(t, db, "alice@test.com", "alice")

	// Older recipe with many interactions, newer one with none
	hot := createTestRecipe(t, db, alice.ID, "Carbonara")
	cold := createTestRecipe(t, db, alice.ID, "Plain Rice")
	for i := 0; i < 3; i++ {
		db.Create(&models.LogEvent{UserID: alice.ID, RecipeID: hot.ID, Op: "view", Count: 1})
	}

	w := doJSON(t, r, "GET", "/api/feed?ranked=1", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var page pagination.Page[models.Recipe]
	json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.Items) != 2 {
		t.Fatalf("Expected 2 recipes, got %d", len(page.Items))
	}
	if page.Items[0].ID != hot.ID {
		t.Errorf("Expected the interacted-with recipe first, got %d", page.Items[0].ID)
	}

	// Without ranking the newer recipe leads
	w = doJSON(t, r, "GET", "/api/feed", aliceToken, nil)
	json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.Items) == 2 && page.Items[0].ID != cold.ID {
		t.Errorf("Expected recency order without ranking, got %d first", page.Items[0].ID)
	}
}
