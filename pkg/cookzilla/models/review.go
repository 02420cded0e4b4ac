package models

import "time"

// Review is a rated write-up on a recipe. Nothing stops an author from
// reviewing the same recipe more than once. Disabled reviews stay in
// the table for audit but are excluded from public listings.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
	RecipeID  uint      `gorm:"index;not null" json:"recipe_id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Rating    int       `gorm:"default:5" json:"rating"`
	Suggestion string   `gorm:"type:text" json:"suggestion"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`

	Recipe Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`
	Author User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
