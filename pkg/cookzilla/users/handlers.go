package users

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles user profile and social graph requests
type Handler struct {
	db               *gorm.DB
	recipesPerPage   int
	followersPerPage int
}

// NewHandler creates a new users handler
func NewHandler(db *gorm.DB, recipesPerPage, followersPerPage int) *Handler {
	return &Handler{db: db, recipesPerPage: recipesPerPage, followersPerPage: followersPerPage}
}

// ProfileResponse represents a user profile in API responses
type ProfileResponse struct {
	ID          uint                           `json:"id"`
	Username    string                         `json:"username"`
	Name        string                         `json:"name"`
	AboutMe     string                         `json:"about_me"`
	Avatar      string                         `json:"avatar"`
	JoinedSince string                         `json:"joined_since"`
	LastSeen    string                         `json:"last_seen"`
	Recipes     pagination.Page[models.Recipe] `json:"recipes"`
}

// UpdateProfileRequest represents the profile edit request body
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	AboutMe *string `json:"about_me"`
}

// Get returns a user profile with their recipes, newest first
// @Summary Get user profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{username} [get]
func (h *Handler) Get(c *gin.Context) {
	var user models.User
	if err := h.db.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	recipes, err := pagination.Paginate[models.Recipe](
		h.db.Model(&models.Recipe{}).Where("author_id = ?", user.ID).Order("created_at DESC"),
		pageParam(c), h.recipesPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Name:        user.Name,
		AboutMe:     user.AboutMe,
		Avatar:      user.Gravatar(100),
		JoinedSince: user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		LastSeen:    user.LastSeen.Format("2006-01-02T15:04:05Z"),
		Recipes:     recipes,
	})
}

// UpdateProfile edits the current user's name and about text
// @Summary Edit own profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AboutMe != nil {
		updates["about_me"] = *req.AboutMe
	}
	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Your profile has been updated"})
}

// Feed returns recipes authored by everyone the user follows. The
// self-follow edge guarantees the user's own recipes are included.
// With ranked=1 the activity log is blended in: interaction count
// descending, then recency descending.
// @Summary Followed recipes feed
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param ranked query bool false "Blend personalized ranking"
// @Success 200 {object} pagination.Page[models.Recipe]
// @Security BearerAuth
// @Router /feed [get]
func (h *Handler) Feed(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	followed := h.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", user.ID)

	query := h.db.Model(&models.Recipe{}).
		Where("recipes.author_id IN (?)", followed)

	if c.Query("ranked") == "1" {
		hits := h.db.Model(&models.LogEvent{}).
			Select("recipe_id, SUM(count) AS hits").
			Where("user_id = ?", user.ID).
			Group("recipe_id")
		query = query.
			Joins("LEFT JOIN (?) ranked ON ranked.recipe_id = recipes.id", hits).
			Order("COALESCE(ranked.hits, 0) DESC").
			Order("recipes.created_at DESC")
	} else {
		query = query.Order("recipes.created_at DESC")
	}

	page, err := pagination.Paginate[models.Recipe](query, pageParam(c), h.recipesPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feed"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// RegisterRoutes registers user routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:username", h.Get)

	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.PUT("/profile", h.UpdateProfile)
	authed.GET("/feed", h.Feed)

	h.registerFollowRoutes(rg)
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
