package tags

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles tag-related requests
type Handler struct {
	db      *gorm.DB
	perPage int
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB, perPage int) *Handler {
	return &Handler{db: db, perPage: perPage}
}

// TagResponse is a vocabulary tag with its usage count
type TagResponse struct {
	ID          uint   `json:"id"`
	Label       string `json:"label"`
	RecipeCount int64  `json:"recipe_count"`
}

// List returns the tag vocabulary with per-tag recipe counts
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} TagResponse
// @Router /tags [get]
func (h *Handler) List(c *gin.Context) {
	var tags []models.Tag
	if err := h.db.Order("id ASC").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tags"})
		return
	}

	resp := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		var count int64
		if err := h.db.Table("recipe_tags").Where("tag_id = ?", tag.ID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tags"})
			return
		}
		resp = append(resp, TagResponse{ID: tag.ID, Label: tag.Label, RecipeCount: count})
	}

	c.JSON(http.StatusOK, resp)
}

// Recipes returns the recipes carrying a tag, oldest first
// @Summary List recipes with a tag
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[models.Recipe]
// @Failure 404 {object} map[string]string "Unknown tag"
// @Router /tags/{id}/recipes [get]
func (h *Handler) Recipes(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return
	}

	var tag models.Tag
	if err := h.db.First(&tag, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown tag"})
		return
	}

	query := h.db.Model(&models.Recipe{}).
		Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
		Where("recipe_tags.tag_id = ?", tag.ID).
		Order("recipes.created_at ASC")
	page, err := pagination.Paginate[models.Recipe](query, pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag.Label, "recipes": page})
}

// RegisterRoutes registers tag routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.GET("/tags/:id/recipes", h.Recipes)
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
