package groups

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db      *gorm.DB
	perPage int
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB, perPage int) *Handler {
	return &Handler{db: db, perPage: perPage}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Title string `json:"title" binding:"required,max=64"`
	About string `json:"about"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID           uint   `json:"id"`
	CreatorID    uint   `json:"creator_id"`
	Title        string `json:"title"`
	About        string `json:"about"`
	GroupedSince string `json:"grouped_since"`
	MemberCount  int64  `json:"member_count"`
	IsMember     bool   `json:"is_member"`
}

// Create creates a group and then, as a separate explicit step inside
// the same transaction, adds the creator as its first member.
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := models.Group{CreatorID: user.ID, Title: req.Title, About: req.About}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{MemberID: user.ID, GroupID: group.ID}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:           group.ID,
		CreatorID:    group.CreatorID,
		Title:        group.Title,
		About:        group.About,
		GroupedSince: group.CreatedAt.Format("2006-01-02T15:04:05Z"),
		MemberCount:  1,
		IsMember:     true,
	})
}

// Get returns a group profile
// @Summary Get group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	group, ok := h.groupByID(c)
	if !ok {
		return
	}

	var memberCount int64
	h.db.Model(&models.GroupMember{}).Where("group_id = ?", group.ID).Count(&memberCount)

	isMember := false
	if user, authed := auth.CurrentUser(c); authed {
		isMember, _ = models.IsMember(h.db, user.ID, group.ID)
	}

	c.JSON(http.StatusOK, GroupResponse{
		ID:           group.ID,
		CreatorID:    group.CreatorID,
		Title:        group.Title,
		About:        group.About,
		GroupedSince: group.CreatedAt.Format("2006-01-02T15:04:05Z"),
		MemberCount:  memberCount,
		IsMember:     isMember,
	})
}

// UserGroups lists the groups a user belongs to
// @Summary List a user's groups
// @Tags groups
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[models.GroupMember]
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{username}/groups [get]
func (h *Handler) UserGroups(c *gin.Context) {
	var user models.User
	if err := h.db.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	page, err := pagination.Paginate[models.GroupMember](
		h.db.Model(&models.GroupMember{}).
			Preload("Group").
			Where("member_id = ?", user.ID).
			Order("member_since DESC"),
		pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Events lists a group's events, newest first
// @Summary List group events
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[models.Event]
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{id}/events [get]
func (h *Handler) Events(c *gin.Context) {
	group, ok := h.groupByID(c)
	if !ok {
		return
	}

	page, err := pagination.Paginate[models.Event](
		h.db.Model(&models.Event{}).
			Where("group_id = ?", group.ID).
			Order("created_at DESC"),
		pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// RegisterRoutes registers group routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups/:id", auth.OptionalAuth(h.db), h.Get)
	rg.GET("/groups/:id/events", h.Events)
	rg.GET("/users/:username/groups", h.UserGroups)

	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.POST("/groups", h.Create)

	h.registerMemberRoutes(rg)
}

func (h *Handler) groupByID(c *gin.Context) (*models.Group, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return nil, false
	}

	var group models.Group
	if err := h.db.First(&group, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return nil, false
	}
	return &group, true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
