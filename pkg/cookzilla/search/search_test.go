package search

import (
	"context"
	"testing"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
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

func seedRecipes(t *testing.T, db *gorm.DB) (uint, uint) {
	user := &models.User{Email: "alice@test.com", Username: "alice", PasswordHash: "x"}
	if err := models.CreateUser(db, user, nil); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	carbonara := models.Recipe{AuthorID: user.ID, Title: "Spaghetti Carbonara", Body: "eggs and guanciale"}
	ramen := models.Recipe{AuthorID: user.ID, Title: "Tonkotsu Ramen", Body: "rich pork broth with eggs"}
	db.Create(&carbonara)
	db.Create(&ramen)
	return carbonara.ID, ramen.ID
}

func TestDatabaseQueryTitleMatch(t *testing.T) {
	db := setupTestDB(t)
	carbonaraID, _ := seedRecipes(t, db)

	index := NewDatabase(db)
	ids, err := index.Query(context.Background(), "carbonara", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != carbonaraID {
		t.Errorf("Expected carbonara only, got %v", ids)
	}
}

func TestDatabaseQueryBodyMatch(t *testing.T) {
	db := setupTestDB(t)
	seedRecipes(t, db)

	index := NewDatabase(db)
	ids, err := index.Query(context.Background(), "eggs", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected both recipes to match on body, got %v", ids)
	}
}

func TestDatabaseQueryLimit(t *testing.T) {
	db := setupTestDB(t)
	seedRecipes(t, db)

	index := NewDatabase(db)
	ids, err := index.Query(context.Background(), "eggs", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected the limit to apply, got %v", ids)
	}
}

func TestDatabaseQueryNoMatch(t *testing.T) {
	db := setupTestDB(t)
	seedRecipes(t, db)

	index := NewDatabase(db)
	ids, err := index.Query(context.Background(), "sushi", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Expected no matches, got %v", ids)
	}
}

func TestDatabaseIndexIsNoop(t *testing.T) {
	db := setupTestDB(t)

	index := NewDatabase(db)
	if err := index.Index(context.Background(), &models.Recipe{Title: "x"}); err != nil {
		t.Errorf("Index must be a no-op, got %v", err)
	}
}
