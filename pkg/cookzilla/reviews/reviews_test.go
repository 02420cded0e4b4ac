package reviews

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	h := NewHandler(db, 10)
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func createTestUser(t *testing.T, db *gorm.DB, email, username string, adminEmails []string) (*models.User, string) {
	hashedPassword, _ := auth.HashPassword("password123")
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := models.CreateUser(db, user, adminEmails); err != nil {
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

func TestCreateReview(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, _ := createTestUser(t, db, "alice@test.com", "alice", nil)
	_, bobToken := createTestUser(t, db, "bob@test.com", "bob", nil)
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	w := doJSON(t, r, "POST", fmt.Sprintf("/api/recipes/%d/reviews", recipe.ID), bobToken, gin.H{
		"title":      "Delicious",
		"body":       "Made it twice already",
		"rating":     5,
		"suggestion": "More pepper",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp ReviewResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Rating != 5 || resp.Author != "bob" {
		t.Errorf("Unexpected review response: %+v", resp)
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, token := createTestUser(t, db, "alice@test.com", "alice", nil)
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	for _, rating := range []int{0, 6} {
		w := doJSON(t, r, "POST", fmt.Sprintf("/api/recipes/%d/reviews", recipe.ID), token, gin.H{
			"title":  "Broken",
			"body":   "x",
			"rating": rating,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for rating %d, got %d", rating, w.Code)
		}
	}
}

func TestDuplicateReviewsAllowed(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, token := createTestUser(t, db, "alice@test.com", "alice", nil)
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, "POST", fmt.Sprintf("/api/recipes/%d/reviews", recipe.ID), token, gin.H{
			"title":  "Again",
			"body":   "Still good",
			"rating": 4,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201 on attempt %d, got %d", i+1, w.Code)
		}
	}

	var count int64
	db.Model(&models.Review{}).Where("recipe_id = ? AND author_id = ?", recipe.ID, alice.ID).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 reviews from the same author, got %d", count)
	}
}

func TestListExcludesDisabled(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, _ := createTestUser(t, db, "alice@test.com", "alice", nil)
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	visible := models.Review{RecipeID: recipe.ID, AuthorID: alice.ID, Title: "Fine", Body: "ok", Rating: 4}
	hidden := models.Review{RecipeID: recipe.ID, AuthorID: alice.ID, Title: "Spam", Body: "buy pills", Rating: 1, Disabled: true}
	db.Create(&visible)
	db.Create(&hidden)

	w := doJSON(t, r, "GET", fmt.Sprintf("/api/recipes/%d/reviews", recipe.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var page pagination.Page[ReviewResponse]
	json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.Items) != 1 || page.Items[0].ID != visible.ID {
		t.Errorf("Expected only the visible review, got %+v", page.Items)
	}

	// Direct lookup still reaches the disabled review
	w = doJSON(t, r, "GET", fmt.Sprintf("/api/reviews/%d", hidden.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for direct lookup, got %d", w.Code)
	}
	var resp ReviewResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Disabled {
		t.Error("Expected the direct lookup to show the disabled flag")
	}
}

func TestModerationGate(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	_, userToken := createTestUser(t, db, "alice@test.com", "alice", nil)

	w := doJSON(t, r, "GET", "/api/moderate/reviews", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 without moderate permission, got %d", w.Code)
	}
}

func TestModerateToggle(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, _ := createTestUser(t, db, "alice@test.com", "alice", nil)
	_, adminToken := createTestUser(t, db, "root@test.com", "root", []string{"root@test.com"})
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	review := models.Review{RecipeID: recipe.ID, AuthorID: alice.ID, Title: "Spam", Body: "buy pills", Rating: 1}
	db.Create(&review)

	w := doJSON(t, r, "PUT", fmt.Sprintf("/api/moderate/reviews/%d", review.ID), adminToken, gin.H{"disabled": true})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Review
	db.First(&stored, review.ID)
	if !stored.Disabled {
		t.Error("Expected review to be disabled")
	}

	w = doJSON(t, r, "PUT", fmt.Sprintf("/api/moderate/reviews/%d", review.ID), adminToken, gin.H{"disabled": false})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	db.First(&stored, review.ID)
	if stored.Disabled {
		t.Error("Expected review to be re-enabled")
	}
}

func TestModerateListIncludesDisabled(t *testing.T) {
	db := setupTestDB(t)
	r := setupTestRouter(db)
	alice, _ := createTestUser(t, db, "alice@test.com", "alice", nil)
	_, adminToken := createTestUser(t, db, "root@test.com", "root", []string{"root@test.com"})
	recipe := createTestRecipe(t, db, alice.ID, "Carbonara")

	db.Create(&models.Review{RecipeID: recipe.ID, AuthorID: alice.ID, Title: "Fine", Body: "ok", Rating: 4})
	db.Create(&models.Review{RecipeID: recipe.ID, AuthorID: alice.ID, Title: "Spam", Body: "x", Rating: 1, Disabled: true})

	w := doJSON(t, r, "GET", "/api/moderate/reviews", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var page pagination.Page[ReviewResponse]
	json.Unmarshal(w.Body.Bytes(), &page)
	if len(page.Items) != 2 {
		t.Errorf("Expected moderation to see both reviews, got %d", len(page.Items))
	}
}
