package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe is the central content entity. Serving is a soft convention of
// 1 to 10 portions, enforced at the form layer rather than here.
type Recipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"timestamp"`
	UpdatedAt time.Time `json:"-"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `gorm:"not null" json:"title"`
	Serving   int       `gorm:"default:1" json:"serving"`
	Body      string    `gorm:"type:text" json:"body"`
	Photos    string    `gorm:"default:''" json:"photos"`

	Author      User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Ingredients []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Reviews     []Review     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// DeleteRecipe removes a recipe and everything hanging off it. The
// cascade is explicit so the policy is visible here rather than buried
// in DDL: ingredients, reviews, tag rows, link edges in both
// directions, and activity log rows all go with the recipe.
func DeleteRecipe(db *gorm.DB, recipeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&Review{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
			return err
		}
		if err := tx.Where("link_id = ? OR linked_id = ?", recipeID, recipeID).Delete(&RecipeLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&LogEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Recipe{}, recipeID).Error
	})
}
