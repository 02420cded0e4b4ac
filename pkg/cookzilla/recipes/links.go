package recipes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// resolveLinkTarget extracts a recipe id from the trailing path
// segment of a pasted recipe URL. Anything that does not end in the id
// of an existing recipe is reported as not-ok, never as an error.
func (h *Handler) resolveLinkTarget(tx *gorm.DB, raw string) (uint, bool) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return 0, false
	}
	segment := raw
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		segment = raw[i+1:]
	}
	id, err := strconv.ParseUint(segment, 10, 32)
	if err != nil {
		h.log.Warn("recipe link dropped, no trailing id", "url", raw)
		return 0, false
	}
	var count int64
	if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil || count == 0 {
		h.log.Warn("recipe link dropped, target not found", "url", raw, "target_id", id)
		return 0, false
	}
	return uint(id), true
}

// Link relates two recipes. Linking is symmetric and idempotent.
// @Summary Link recipes
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Param otherID path int true "Linked recipe ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Not the author"
// @Security BearerAuth
// @Router /recipes/{id}/links/{otherID} [post]
func (h *Handler) Link(c *gin.Context) {
	recipe, other, ok := h.linkPair(c)
	if !ok {
		return
	}
	if err := models.LinkRecipes(h.db, recipe.ID, other.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipes linked"})
}

// Unlink removes the relation between two recipes in either direction
// @Summary Unlink recipes
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Param otherID path int true "Linked recipe ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /recipes/{id}/links/{otherID} [delete]
func (h *Handler) Unlink(c *gin.Context) {
	recipe, other, ok := h.linkPair(c)
	if !ok {
		return
	}
	if err := models.UnlinkRecipes(h.db, recipe.ID, other.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unlink recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipes unlinked"})
}

func (h *Handler) registerLinkRoutes(authed *gin.RouterGroup) {
	authed.POST("/recipes/:id/links/:otherID", h.Link)
	authed.DELETE("/recipes/:id/links/:otherID", h.Unlink)
}

// linkPair loads both ends of a link route and checks the caller owns
// the source recipe (or is an administrator).
func (h *Handler) linkPair(c *gin.Context) (*models.Recipe, *models.Recipe, bool) {
	recipe, ok := h.recipeByID(c)
	if !ok {
		return nil, nil, false
	}
	if user, _ := auth.CurrentUser(c); recipe.AuthorID != user.ID && !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can manage links"})
		return nil, nil, false
	}

	otherID, err := strconv.ParseUint(c.Param("otherID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return nil, nil, false
	}
	var other models.Recipe
	if err := h.db.First(&other, otherID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return nil, nil, false
	}
	return recipe, &other, true
}
