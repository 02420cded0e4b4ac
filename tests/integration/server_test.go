package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/admin"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/events"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/groups"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/images"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/logger"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/recipes"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/reviews"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/search"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/tags"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/users"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if err := models.Seed(db); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	return db
}

// setupFullServer creates a Gin engine with all routes registered.
// This mirrors the setup in cmd/cookzilla-server/main.go.
func setupFullServer(t *testing.T, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth.NewHandler(db, nil).RegisterRoutes(api.Group("/auth"))
		users.NewHandler(db, 20, 50).RegisterRoutes(api)
		recipes.NewHandler(db, logger.Discard(), search.NewDatabase(db),
			images.NewLocal(t.TempDir(), "/uploads")).RegisterRoutes(api)
		reviews.NewHandler(db, 10).RegisterRoutes(api)
		tags.NewHandler(db, 20).RegisterRoutes(api)
		groups.NewHandler(db, 20).RegisterRoutes(api)
		events.NewHandler(db, 10).RegisterRoutes(api)
		admin.NewHandler(db).RegisterRoutes(api)
	}

	return r
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

func register(t *testing.T, r *gin.Engine, email, username string) (uint, string) {
	w := doJSON(t, r, "POST", "/api/auth/register", "", gin.H{
		"email":    email,
		"username": username,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to register %s: %d %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.User.ID, resp.Token
}

func TestHealthCheck(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullServer(t, db)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

// TestFullUserJourney walks the main flows end to end: two users sign
// up, share and review a recipe, form a group, hold an event, and read
// the feed.
func TestFullUserJourney(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullServer(t, db)

	aliceID, aliceToken := register(t, r, "alice@test.com", "alice")
	_, bobToken := register(t, r, "bob@test.com", "bob")

	// Alice publishes a recipe
	w := doJSON(t, r, "POST", "/api/recipes", aliceToken, gin.H{
		"title":   "Spaghetti Carbonara",
		"serving": 4,
		"body":    "Whisk eggs with pecorino, toss with hot pasta",
		"ingredients": []gin.H{
			{"name": "spaghetti", "unit": "gram(g)", "quantity": "400"},
			{"name": "pecorino", "unit": "gram(g)", "quantity": "80"},
		},
		"tags": []uint{1},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create recipe: %d %s", w.Code, w.Body.String())
	}
	var recipe struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &recipe)

	// Bob finds it through search and reviews it
	w = doJSON(t, r, "GET", "/api/search?q=carbonara", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Search failed: %d %s", w.Code, w.Body.String())
	}
	var hits []struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &hits)
	if len(hits) != 1 || hits[0].ID != recipe.ID {
		t.Fatalf("Expected the recipe in search results, got %v", hits)
	}

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/recipes/%d/reviews", recipe.ID), bobToken, gin.H{
		"title":  "Weeknight staple",
		"body":   "Came out creamy without cream",
		"rating": 5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to review: %d %s", w.Code, w.Body.String())
	}

	// Bob follows Alice; her recipe shows up in his feed
	w = doJSON(t, r, "POST", "/api/users/alice/follow", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to follow: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, "GET", "/api/feed", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Feed failed: %d", w.Code)
	}
	var feed struct {
		Total int64 `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &feed)
	if feed.Total != 1 {
		t.Errorf("Expected 1 recipe in bob's feed, got %d", feed.Total)
	}

	// Alice starts a group, bob joins, alice schedules an event
	w = doJSON(t, r, "POST", "/api/groups", aliceToken, gin.H{"title": "Pasta Lovers"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create group: %d %s", w.Code, w.Body.String())
	}
	var group struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &group)

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/groups/%d/membership", group.ID), bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to join group: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, "POST", fmt.Sprintf("/api/groups/%d/events", group.ID), aliceToken, gin.H{
		"title":     "Carbonara Night",
		"starts_at": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"location":  "Alice's place",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to create event: %d %s", w.Code, w.Body.String())
	}
	var event struct {
		ID uint `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &event)

	// Bob RSVPs and afterwards writes the report
	w = doJSON(t, r, "POST", fmt.Sprintf("/api/events/%d/rsvp", event.ID), bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to rsvp: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, "POST", fmt.Sprintf("/api/events/%d/reports", event.ID), bobToken, gin.H{
		"title": "We ate well",
		"body":  "Four pans of carbonara, none left",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Failed to report: %d %s", w.Code, w.Body.String())
	}

	// Alice's profile reflects all of it
	w = doJSON(t, r, "GET", "/api/users/alice", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Profile failed: %d", w.Code)
	}
	var profile struct {
		ID      uint `json:"id"`
		Recipes struct {
			Total int64 `json:"total"`
		} `json:"recipes"`
	}
	json.Unmarshal(w.Body.Bytes(), &profile)
	if profile.ID != aliceID || profile.Recipes.Total != 1 {
		t.Errorf("Unexpected profile: %+v", profile)
	}
}

// TestPermissionBoundaries checks the gates between roles across the
// whole route surface.
func TestPermissionBoundaries(t *testing.T) {
	db := setupTestDB(t)
	r := setupFullServer(t, db)

	_, userToken := register(t, r, "alice@test.com", "alice")

	// Ordinary users reach neither moderation nor admin
	w := doJSON(t, r, "GET", "/api/moderate/reviews", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 from moderation, got %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/admin/stats", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 from admin, got %d", w.Code)
	}

	// Promote alice to moderator; moderation opens up, admin stays shut
	var moderator models.Role
	if err := db.Where("name = ?", "Moderator").First(&moderator).Error; err != nil {
		t.Fatalf("Failed to load moderator role: %v", err)
	}
	if err := db.Model(&models.User{}).Where("username = ?", "alice").
		Update("role_id", moderator.ID).Error; err != nil {
		t.Fatalf("Failed to promote alice: %v", err)
	}

	w = doJSON(t, r, "GET", "/api/moderate/reviews", userToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from moderation as moderator, got %d", w.Code)
	}
	w = doJSON(t, r, "GET", "/api/admin/stats", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 from admin as moderator, got %d", w.Code)
	}
}
