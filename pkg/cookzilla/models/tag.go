package models

import "gorm.io/gorm"

// Tag is one entry of the closed, pre-seeded vocabulary. Users pick
// tags; they never create them.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Label string `gorm:"uniqueIndex;not null" json:"label"`

	Recipes []Recipe `gorm:"many2many:recipe_tags" json:"recipes,omitempty"`
}

// DefaultTags is the seeded tag vocabulary.
var DefaultTags = []string{
	"Italian", "Chinese", "American", "French", "Vegan", "Soup", "Spicy",
}

// SeedTags inserts any vocabulary entries not yet present.
func SeedTags(db *gorm.DB) error {
	for _, label := range DefaultTags {
		var tag Tag
		err := db.Where("label = ?", label).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&Tag{Label: label}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// TagRecipe applies a tag to a recipe. Tagging twice is a no-op.
func TagRecipe(db *gorm.DB, recipeID, tagID uint) error {
	tagged, err := HasTag(db, recipeID, tagID)
	if err != nil || tagged {
		return err
	}
	return db.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipeID, tagID).Error
}

// UntagRecipe removes a tag from a recipe. Untagging an untagged
// recipe is a no-op.
func UntagRecipe(db *gorm.DB, recipeID, tagID uint) error {
	return db.Exec("DELETE FROM recipe_tags WHERE recipe_id = ? AND tag_id = ?", recipeID, tagID).Error
}

// HasTag is an existence check on the join row.
func HasTag(db *gorm.DB, recipeID, tagID uint) (bool, error) {
	var count int64
	err := db.Table("recipe_tags").
		Where("recipe_id = ? AND tag_id = ?", recipeID, tagID).
		Count(&count).Error
	return count > 0, err
}
