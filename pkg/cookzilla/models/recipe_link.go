package models

import "gorm.io/gorm"

// RecipeLink is a directed edge between two recipes. The relation is
// symmetric as far as readers are concerned, so traversals consult both
// columns; only the stored edge is directed.
type RecipeLink struct {
	LinkID   uint `gorm:"primaryKey;autoIncrement:false;index" json:"link_id"`
	LinkedID uint `gorm:"primaryKey;autoIncrement:false;index" json:"linked_id"`

	Link   Recipe `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE" json:"-"`
	Linked Recipe `gorm:"foreignKey:LinkedID;constraint:OnDelete:CASCADE" json:"-"`
}

// LinkRecipes associates two recipes. Linking an already-linked pair,
// in either orientation, is a no-op.
func LinkRecipes(db *gorm.DB, aID, bID uint) error {
	if aID == bID {
		return nil
	}
	linked, err := AreLinked(db, aID, bID)
	if err != nil || linked {
		return err
	}
	return db.Create(&RecipeLink{LinkID: aID, LinkedID: bID}).Error
}

// UnlinkRecipes removes the association in whichever orientation it was
// stored.
func UnlinkRecipes(db *gorm.DB, aID, bID uint) error {
	return db.Where("(link_id = ? AND linked_id = ?) OR (link_id = ? AND linked_id = ?)",
		aID, bID, bID, aID).Delete(&RecipeLink{}).Error
}

// AreLinked reports whether an edge exists between the two recipes in
// either orientation.
func AreLinked(db *gorm.DB, aID, bID uint) (bool, error) {
	var count int64
	err := db.Model(&RecipeLink{}).
		Where("(link_id = ? AND linked_id = ?) OR (link_id = ? AND linked_id = ?)",
			aID, bID, bID, aID).
		Count(&count).Error
	return count > 0, err
}

// LinkedRecipeIDs returns every recipe linked to the given one,
// following edges in both directions.
func LinkedRecipeIDs(db *gorm.DB, recipeID uint) ([]uint, error) {
	var forward []uint
	if err := db.Model(&RecipeLink{}).Where("link_id = ?", recipeID).
		Pluck("linked_id", &forward).Error; err != nil {
		return nil, err
	}
	var backward []uint
	if err := db.Model(&RecipeLink{}).Where("linked_id = ?", recipeID).
		Pluck("link_id", &backward).Error; err != nil {
		return nil, err
	}
	return append(forward, backward...), nil
}
