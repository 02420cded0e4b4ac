package admin

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/activity"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles admin requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UserResponse represents user data in admin responses
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	Confirmed   bool   `json:"confirmed"`
	CreatedAt   string `json:"created_at"`
	RecipeCount int64  `json:"recipe_count"`
	ReviewCount int64  `json:"review_count"`
}

// UpdateUserRequest represents the request to update a user
type UpdateUserRequest struct {
	Username  *string `json:"username"`
	RoleID    *uint   `json:"role_id"`
	Confirmed *bool   `json:"confirmed"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	ConfirmedUsers  int64 `json:"confirmed_users"`
	TotalRecipes    int64 `json:"total_recipes"`
	TotalReviews    int64 `json:"total_reviews"`
	DisabledReviews int64 `json:"disabled_reviews"`
	TotalGroups     int64 `json:"total_groups"`
	TotalEvents     int64 `json:"total_events"`
	TotalFollows    int64 `json:"total_follows"`
}

func (h *Handler) userToResponse(user *models.User) UserResponse {
	var recipeCount, reviewCount int64
	h.db.Model(&models.Recipe{}).Where("author_id = ?", user.ID).Count(&recipeCount)
	h.db.Model(&models.Review{}).Where("author_id = ?", user.ID).Count(&reviewCount)

	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Role:        user.Role.Name,
		Confirmed:   user.Confirmed,
		CreatedAt:   user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		RecipeCount: recipeCount,
		ReviewCount: reviewCount,
	}
}

// ListUsers returns all users (admin only)
// @Summary List users
// @Tags admin
// @Produce json
// @Param q query string false "Search by email or username"
// @Param role query int false "Filter by role id"
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User

	query := h.db.Preload("Role").Order("created_at DESC")

	// Optional search by email or username
	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR username LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	// Optional filter by role
	if role := c.Query("role"); role != "" {
		query = query.Where("role_id = ?", role)
	}

	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = h.userToResponse(&users[i])
	}

	c.JSON(http.StatusOK, responses)
}

// GetUser returns a single user (admin only)
// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	user, ok := h.userByID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.userToResponse(user))
}

// UpdateUser changes a user's username, role, or confirmed state
// (admin only)
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	user, ok := h.userByID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		var count int64
		h.db.Model(&models.User{}).Where("username = ? AND id != ?", *req.Username, user.ID).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already in use"})
			return
		}
		updates["username"] = *req.Username
	}
	if req.RoleID != nil {
		var role models.Role
		if err := h.db.First(&role, *req.RoleID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
		updates["role_id"] = role.ID
	}
	if req.Confirmed != nil {
		updates["confirmed"] = *req.Confirmed
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
	}

	h.db.Preload("Role").First(user, user.ID)
	c.JSON(http.StatusOK, h.userToResponse(user))
}

// ListRoles returns the role table with permission bitmasks
// @Summary List roles
// @Tags admin
// @Produce json
// @Success 200 {array} models.Role
// @Security BearerAuth
// @Router /admin/roles [get]
func (h *Handler) ListRoles(c *gin.Context) {
	var roles []models.Role
	if err := h.db.Order("id ASC").Find(&roles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Stats returns system-wide counts (admin only)
// @Summary System statistics
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var stats StatsResponse
	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("confirmed = ?", true).Count(&stats.ConfirmedUsers)
	h.db.Model(&models.Recipe{}).Count(&stats.TotalRecipes)
	h.db.Model(&models.Review{}).Count(&stats.TotalReviews)
	h.db.Model(&models.Review{}).Where("disabled = ?", true).Count(&stats.DisabledReviews)
	h.db.Model(&models.Group{}).Count(&stats.TotalGroups)
	h.db.Model(&models.Event{}).Count(&stats.TotalEvents)
	h.db.Model(&models.Follow{}).Count(&stats.TotalFollows)

	c.JSON(http.StatusOK, stats)
}

// Usage returns the most interacted-with recipes across all users
// @Summary Recipe usage report
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum rows"
// @Success 200 {array} activity.UsageRow
// @Security BearerAuth
// @Router /admin/usage [get]
func (h *Handler) Usage(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	rows, err := activity.UsageReport(h.db, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build usage report"})
		return
	}
	if rows == nil {
		rows = []activity.UsageRow{}
	}

	c.JSON(http.StatusOK, rows)
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	adm := rg.Group("/admin", auth.RequireAuth(h.db), auth.RequireAdmin())
	adm.GET("/users", h.ListUsers)
	adm.GET("/users/:id", h.GetUser)
	adm.PUT("/users/:id", h.UpdateUser)
	adm.GET("/roles", h.ListRoles)
	adm.GET("/stats", h.Stats)
	adm.GET("/usage", h.Usage)
}

func (h *Handler) userByID(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var user models.User
	if err := h.db.Preload("Role").First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}
