// Package search is the full-text index collaborator: recipes go in,
// matching recipe ids come out.
package search

import (
	"context"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
)

// Index is the contract the recipe handlers depend on.
type Index interface {
	Index(ctx context.Context, recipe *models.Recipe) error
	Query(ctx context.Context, text string, limit int) ([]uint, error)
}
