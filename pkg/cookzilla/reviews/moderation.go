package reviews

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
)

// ModerateReviewRequest toggles a review's visibility
type ModerateReviewRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

// ModerateList returns every review, newest first, including disabled
// ones
// @Summary List all reviews for moderation
// @Tags moderation
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[ReviewResponse]
// @Failure 403 {object} map[string]string "Missing moderate permission"
// @Security BearerAuth
// @Router /moderate/reviews [get]
func (h *Handler) ModerateList(c *gin.Context) {
	query := h.db.Model(&models.Review{}).
		Preload("Author").
		Order("created_at DESC")
	page, err := pagination.Paginate[models.Review](query, pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, reviewPage(page))
}

// Moderate enables or disables a review
// @Summary Enable or disable a review
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param request body ModerateReviewRequest true "Visibility"
// @Success 200 {object} ReviewResponse
// @Failure 403 {object} map[string]string "Missing moderate permission"
// @Failure 404 {object} map[string]string "Review not found"
// @Security BearerAuth
// @Router /moderate/reviews/{id} [put]
func (h *Handler) Moderate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var review models.Review
	if err := h.db.Preload("Author").First(&review, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	var req ModerateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Model(&review).Update("disabled", *req.Disabled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}
	review.Disabled = *req.Disabled

	c.JSON(http.StatusOK, reviewToResponse(&review))
}

func (h *Handler) registerModerationRoutes(authed *gin.RouterGroup) {
	moderate := authed.Group("/moderate", auth.RequirePermission(models.PermissionModerateReviews))
	moderate.GET("/reviews", h.ModerateList)
	moderate.PUT("/reviews/:id", h.Moderate)
}
