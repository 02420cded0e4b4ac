package recipes

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
)

// TagRecipe attaches a vocabulary tag to a recipe. Tagging twice is a
// no-op.
// @Summary Tag a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Param tagID path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Unknown tag"
// @Security BearerAuth
// @Router /recipes/{id}/tags/{tagID} [post]
func (h *Handler) TagRecipe(c *gin.Context) {
	recipe, tag, ok := h.tagPair(c)
	if !ok {
		return
	}
	if err := models.TagRecipe(h.db, recipe.ID, tag.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tag recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe tagged as " + tag.Label})
}

// UntagRecipe removes a tag from a recipe
// @Summary Untag a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Param tagID path int true "Tag ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /recipes/{id}/tags/{tagID} [delete]
func (h *Handler) UntagRecipe(c *gin.Context) {
	recipe, tag, ok := h.tagPair(c)
	if !ok {
		return
	}
	if err := models.UntagRecipe(h.db, recipe.ID, tag.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to untag recipe"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag " + tag.Label + " removed"})
}

func (h *Handler) registerTagRoutes(authed *gin.RouterGroup) {
	authed.POST("/recipes/:id/tags/:tagID", h.TagRecipe)
	authed.DELETE("/recipes/:id/tags/:tagID", h.UntagRecipe)
}

func (h *Handler) tagPair(c *gin.Context) (*models.Recipe, *models.Tag, bool) {
	recipe, ok := h.recipeByID(c)
	if !ok {
		return nil, nil, false
	}
	if user, _ := auth.CurrentUser(c); recipe.AuthorID != user.ID && !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can manage tags"})
		return nil, nil, false
	}

	tagID, err := strconv.ParseUint(c.Param("tagID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID"})
		return nil, nil, false
	}
	var tag models.Tag
	if err := h.db.First(&tag, tagID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown tag"})
		return nil, nil, false
	}
	return recipe, &tag, true
}
