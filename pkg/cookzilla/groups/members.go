package groups

import (
	"net/http"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	MemberSince string `json:"member_since"`
	Admin       bool   `json:"admin"`
}

// Join adds the current user to a group
// @Summary Join a group
// @Description Joining a group the user already belongs to is a no-op
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/membership [post]
func (h *Handler) Join(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	group, ok := h.groupByID(c)
	if !ok {
		return
	}

	if err := models.JoinGroup(h.db, user.ID, group.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are now a member of " + group.Title})
}

// Leave removes the current user from a group
// @Summary Leave a group
// @Description Leaving a group the user is not in is a no-op
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/membership [delete]
func (h *Handler) Leave(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	group, ok := h.groupByID(c)
	if !ok {
		return
	}

	if err := models.LeaveGroup(h.db, user.ID, group.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are no longer a member of " + group.Title})
}

// Members lists a group's members with join timestamps
// @Summary List group members
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param page query int false "Page number"
// @Success 200 {object} pagination.Page[MemberResponse]
// @Failure 404 {object} map[string]string "Group not found"
// @Router /groups/{id}/members [get]
func (h *Handler) Members(c *gin.Context) {
	group, ok := h.groupByID(c)
	if !ok {
		return
	}

	page, err := pagination.Paginate[models.GroupMember](
		h.db.Model(&models.GroupMember{}).
			Preload("Member").
			Where("group_id = ?", group.ID).
			Order("member_since ASC"),
		pageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(page.Items))
	for i, m := range page.Items {
		members[i] = MemberResponse{
			ID:          m.Member.ID,
			Username:    m.Member.Username,
			Name:        m.Member.Name,
			Avatar:      m.Member.Gravatar(100),
			MemberSince: m.MemberSince.Format("2006-01-02T15:04:05Z"),
			Admin:       m.Admin,
		}
	}

	c.JSON(http.StatusOK, pagination.Page[MemberResponse]{
		Items:      members,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

func (h *Handler) registerMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups/:id/members", h.Members)

	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.POST("/groups/:id/membership", h.Join)
	authed.DELETE("/groups/:id/membership", h.Leave)
}
