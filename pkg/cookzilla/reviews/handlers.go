package reviews

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles review-related requests
type Handler struct {
	db      *gorm.DB
	perPage int
}

// NewHandler creates a new reviews handler
func NewHandler(db *gorm.DB, perPage int) *Handler {
	return &Handler{db: db, perPage: perPage}
}

// CreateReviewRequest represents the request to post a review
type CreateReviewRequest struct {
	Title      string `json:"title" binding:"required,max=64"`
	Body       string `json:"body" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Suggestion string `json:"suggestion"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID         uint   `json:"id"`
	RecipeID   uint   `json:"recipe_id"`
	AuthorID   uint   `json:"author_id"`
	Author     string `json:"author"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Rating     int    `json:"rating"`
	Suggestion string `json:"suggestion"`
	Disabled   bool   `json:"disabled"`
	Timestamp  string `json:"timestamp"`
}

func reviewToResponse(review *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:         review.ID,
		RecipeID:   review.RecipeID,
		AuthorID:   review.AuthorID,
		Title:      review.Title,
		Body:       review.Body,
		Rating:     review.Rating,
		Suggestion: review.Suggestion,
		Disabled:   review.Disabled,
		Timestamp:  review.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if review.Author.ID != 0 {
		resp.Author = review.Author.Username
	}
	return resp
}

// Create posts a review on a recipe. A reviewer may review the same
// recipe more than once.
// @Summary Review a recipe
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body CreateReviewRequest true "Review"
// @Success 201 {object} ReviewResponse
// @Failure 403 {object} map[string]string "Missing review permission"
// @Failure 404 {object} map[string]string "Recipe not found"
// @Security BearerAuth
// @Router /recipes/{id}/reviews [post]
func (h *Handler) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}
	var recipe models.Recipe
	if err := h.db.First(&recipe, recipeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review := models.Review{
		RecipeID:   recipe.ID,
		AuthorID:   user.ID,
		Title:      req.Title,
		Body:       req.Body,
		Rating:     req.Rating,
		Suggestion: req.Suggestion,
	}
	if err := h.db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	review.Author = *user
	c.JSON(http.StatusCreated, reviewToResponse(&review))
}

// ListForRecipe returns visible reviews of a recipe, oldest first.
// Disabled reviews never show up here.
// @Summary List reviews of a recipe
// @Tags reviews
// @Produce json
// @Param id path int true "Recipe ID"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[ReviewResponse]
// @Failure 404 {object} map[string]string "Recipe not found"
// @Router /recipes/{id}/reviews [get]
func (h *Handler) ListForRecipe(c *gin.Context) {
	recipeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID"})
		return
	}
	var recipe models.Recipe
	if err := h.db.First(&recipe, recipeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	query := h.db.Model(&models.Review{}).
		Preload("Author").
		Where("recipe_id = ? AND disabled = ?", recipe.ID, false).
		Order("created_at ASC")
	page, err := pagination.Paginate[models.Review](query, pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, reviewPage(page))
}

// Get returns a single review by id, disabled or not
// @Summary Get review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} ReviewResponse
// @Failure 404 {object} map[string]string "Review not found"
// @Router /reviews/{id} [get]
func (h *Handler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, reviewToResponse(&review))
}

// RegisterRoutes registers review routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes/:id/reviews", h.ListForRecipe)
	rg.GET("/reviews/:id", h.Get)

	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.POST("/recipes/:id/reviews", auth.RequirePermission(models.PermissionReview), h.Create)

	h.registerModerationRoutes(authed)
}

func reviewPage(page pagination.Page[models.Review]) pagination.Page[ReviewResponse] {
	items := make([]ReviewResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, reviewToResponse(&page.Items[i]))
	}
	return pagination.Page[ReviewResponse]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
