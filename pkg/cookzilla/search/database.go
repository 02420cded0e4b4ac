package search

import (
	"context"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"gorm.io/gorm"
)

// Database is the fallback index used when no Elasticsearch cluster is
// configured. Recipes are already rows, so Index has nothing to do and
// Query is a LIKE match over title and body.
type Database struct {
	db *gorm.DB
}

// NewDatabase wraps the relational store as a search index.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Index(ctx context.Context, recipe *models.Recipe) error {
	return nil
}

func (d *Database) Query(ctx context.Context, text string, limit int) ([]uint, error) {
	pattern := "%" + text + "%"
	var ids []uint
	err := d.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("title LIKE ? OR body LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
