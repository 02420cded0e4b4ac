package models

import "time"

// LogEvent records one browse or search interaction. Rows are never
// deduplicated; ranking aggregates them with SUM(count) grouped by
// (user, recipe).
type LogEvent struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `gorm:"not null;index:idx_log_user_recipe" json:"user_id"`
	RecipeID uint      `gorm:"not null;index:idx_log_user_recipe" json:"recipe_id"`
	Op       string    `gorm:"size:16;not null" json:"op"`
	Count    int       `gorm:"default:1" json:"count"`
	LoggedAt time.Time `gorm:"autoCreateTime;index" json:"logged_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}
