package recipes

import (
	"net/http"
	"path/filepath"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/gin-gonic/gin"
)

// maxPhotoBytes caps uploads at 10 MiB
const maxPhotoBytes = 10 << 20

// UploadPhoto stores a recipe photo and saves its public URL on the
// recipe. The upload backend decides where the bytes actually land.
// @Summary Upload recipe photo
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Recipe ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string "Not the author"
// @Security BearerAuth
// @Router /recipes/{id}/photo [post]
func (h *Handler) UploadPhoto(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	recipe, ok := h.recipeByID(c)
	if !ok {
		return
	}
	if recipe.AuthorID != user.ID && !user.IsAdministrator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can add photos"})
		return
	}

	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file required"})
		return
	}
	if header.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo too large"})
		return
	}
	switch filepath.Ext(header.Filename) {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	img, err := h.store.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.log.Error("photo upload failed", "recipe_id", recipe.ID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Photo upload failed"})
		return
	}

	if err := h.db.Model(recipe).Update("photos", img.URL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded", "url": img.URL})
}

func (h *Handler) registerPhotoRoutes(authed *gin.RouterGroup) {
	authed.POST("/recipes/:id/photo", h.UploadPhoto)
}
