// Package activity is the append-only interaction log feeding
// personalized ranking and the admin usage report.
package activity

import (
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"gorm.io/gorm"
)

// Operation labels recorded in the log.
const (
	OpView   = "view"
	OpSearch = "search"
)

// Record appends one interaction row. Nothing is deduplicated; repeated
// views of the same recipe pile up and are summed at query time.
func Record(db *gorm.DB, userID, recipeID uint, op string) error {
	return db.Create(&models.LogEvent{
		UserID:   userID,
		RecipeID: recipeID,
		Op:       op,
		Count:    1,
	}).Error
}

// Counts aggregates the user's interactions per recipe:
// SUM(count) GROUP BY (user, recipe).
func Counts(db *gorm.DB, userID uint) (map[uint]int64, error) {
	type row struct {
		RecipeID uint
		Hits     int64
	}
	var rows []row
	err := db.Model(&models.LogEvent{}).
		Select("recipe_id, SUM(count) AS hits").
		Where("user_id = ?", userID).
		Group("recipe_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.RecipeID] = r.Hits
	}
	return counts, nil
}

// RankedSubquery returns a per-recipe interaction total for one user,
// for joining against the recipes table when blending a feed.
func RankedSubquery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.LogEvent{}).
		Select("recipe_id, SUM(count) AS hits").
		Where("user_id = ?", userID).
		Group("recipe_id")
}

// UsageRow is one line of the admin usage report.
type UsageRow struct {
	RecipeID    uint  `json:"recipe_id"`
	Total       int64 `json:"total"`
	UniqueUsers int64 `json:"unique_users"`
}

// UsageReport aggregates interactions across all users, most active
// recipes first.
func UsageReport(db *gorm.DB, limit int) ([]UsageRow, error) {
	var rows []UsageRow
	err := db.Model(&models.LogEvent{}).
		Select("recipe_id, SUM(count) AS total, COUNT(DISTINCT user_id) AS unique_users").
		Group("recipe_id").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
