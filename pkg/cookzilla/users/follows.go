package users

import (
	"net/http"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
)

// FollowEntry represents one edge in a follower listing
type FollowEntry struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Timestamp string `json:"timestamp"`
}

// Follow makes the current user follow another
// @Summary Follow a user
// @Description Following an already-followed user is a no-op
// @Tags users
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{username}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	target, ok := h.userByUsername(c)
	if !ok {
		return
	}

	if err := models.FollowUser(h.db, current.ID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are now following " + target.Username})
}

// Unfollow makes the current user unfollow another
// @Summary Unfollow a user
// @Description Unfollowing a non-followed user is a no-op; the self-follow edge cannot be removed
// @Tags users
// @Produce json
// @Param username path string true "Username to unfollow"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{username}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	current, _ := auth.CurrentUser(c)

	target, ok := h.userByUsername(c)
	if !ok {
		return
	}

	if err := models.UnfollowUser(h.db, current.ID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are not following " + target.Username + " anymore"})
}

// Followers lists the users following the given user
// @Summary List followers
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[FollowEntry]
// @Router /users/{username}/followers [get]
func (h *Handler) Followers(c *gin.Context) {
	target, ok := h.userByUsername(c)
	if !ok {
		return
	}

	page, err := pagination.Paginate[models.Follow](
		h.db.Model(&models.Follow{}).
			Preload("Follower").
			Where("followed_id = ?", target.ID).
			Order("created_at DESC"),
		pageParam(c), h.followersPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followers"})
		return
	}

	entries := make([]FollowEntry, len(page.Items))
	for i, f := range page.Items {
		entries[i] = followEntry(&f.Follower, f)
	}
	c.JSON(http.StatusOK, followPage(page, entries))
}

// FollowedBy lists the users the given user follows
// @Summary List followed users
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[FollowEntry]
// @Router /users/{username}/followed [get]
func (h *Handler) FollowedBy(c *gin.Context) {
	target, ok := h.userByUsername(c)
	if !ok {
		return
	}

	page, err := pagination.Paginate[models.Follow](
		h.db.Model(&models.Follow{}).
			Preload("Followed").
			Where("follower_id = ?", target.ID).
			Order("created_at DESC"),
		pageParam(c), h.followersPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch followed users"})
		return
	}

	entries := make([]FollowEntry, len(page.Items))
	for i, f := range page.Items {
		entries[i] = followEntry(&f.Followed, f)
	}
	c.JSON(http.StatusOK, followPage(page, entries))
}

func (h *Handler) registerFollowRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/:username/followers", h.Followers)
	rg.GET("/users/:username/followed", h.FollowedBy)

	authed := rg.Group("", auth.RequireAuth(h.db), auth.RequirePermission(models.PermissionFollow))
	authed.POST("/users/:username/follow", h.Follow)
	authed.DELETE("/users/:username/follow", h.Unfollow)
}

func (h *Handler) userByUsername(c *gin.Context) (*models.User, bool) {
	var user models.User
	if err := h.db.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func followEntry(u *models.User, f models.Follow) FollowEntry {
	return FollowEntry{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Avatar:    u.Gravatar(100),
		Timestamp: f.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func followPage(page pagination.Page[models.Follow], entries []FollowEntry) pagination.Page[FollowEntry] {
	return pagination.Page[FollowEntry]{
		Items:      entries,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
