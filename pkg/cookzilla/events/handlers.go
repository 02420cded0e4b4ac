package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles event and RSVP requests
type Handler struct {
	db      *gorm.DB
	perPage int
}

// NewHandler creates a new events handler
func NewHandler(db *gorm.DB, perPage int) *Handler {
	return &Handler{db: db, perPage: perPage}
}

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title    string    `json:"title" binding:"required,max=64"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	Location string    `json:"location"`
	About    string    `json:"about"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	CreatorID  uint   `json:"creator_id"`
	Title      string `json:"title"`
	StartsAt   string `json:"starts_at"`
	Location   string `json:"location"`
	About      string `json:"about"`
	GoingCount int64  `json:"going_count"`
	IsGoing    bool   `json:"is_going"`
}

func (h *Handler) eventToResponse(event *models.Event, userID uint) EventResponse {
	var going int64
	h.db.Model(&models.RSVP{}).Where("event_id = ?", event.ID).Count(&going)

	isGoing := false
	if userID != 0 {
		isGoing, _ = models.IsRsvp(h.db, userID, event.ID)
	}

	return EventResponse{
		ID:         event.ID,
		GroupID:    event.GroupID,
		CreatorID:  event.CreatorID,
		Title:      event.Title,
		StartsAt:   event.StartsAt.Format(time.RFC3339),
		Location:   event.Location,
		About:      event.About,
		GoingCount: going,
		IsGoing:    isGoing,
	}
}

// Create creates an event under a group. The creator is RSVP'd as
// going in the same transaction, mirroring group creation.
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} EventResponse
// @Failure 403 {object} map[string]string "Not a group member"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/events [post]
func (h *Handler) Create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	if !h.requireMember(c, user.ID, group.ID) {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		GroupID:   group.ID,
		CreatorID: user.ID,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		Location:  req.Location,
		About:     req.About,
	}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return tx.Create(&models.RSVP{UserID: user.ID, EventID: event.ID}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, h.eventToResponse(&event, user.ID))
}

// Get returns an event page. Only group members may see it;
// non-members get a notice pointing back at the group.
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} EventResponse
// @Failure 403 {object} map[string]string "Not a group member"
// @Failure 404 {object} map[string]string "Event not found"
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	event, ok := h.eventByID(c)
	if !ok {
		return
	}
	if !h.requireMember(c, user.ID, event.GroupID) {
		return
	}

	c.JSON(http.StatusOK, h.eventToResponse(event, user.ID))
}

// Rsvp marks the current user as going
// @Summary RSVP to an event
// @Description RSVPing twice is a no-op
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp [post]
func (h *Handler) Rsvp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	event, ok := h.eventByID(c)
	if !ok {
		return
	}
	if !h.requireMember(c, user.ID, event.GroupID) {
		return
	}

	if err := models.Rsvp(h.db, user.ID, event.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to RSVP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are going to " + event.Title})
}

// Unrsvp withdraws the current user's RSVP
// @Summary Withdraw RSVP
// @Description Withdrawing when not going is a no-op
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /events/{id}/rsvp [delete]
func (h *Handler) Unrsvp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	event, ok := h.eventByID(c)
	if !ok {
		return
	}
	if !h.requireMember(c, user.ID, event.GroupID) {
		return
	}

	if err := models.Unrsvp(h.db, user.ID, event.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw RSVP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "You are no longer going to " + event.Title})
}

// RegisterRoutes registers event routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.POST("/groups/:id/events", h.Create)
	authed.GET("/events/:id", h.Get)
	authed.POST("/events/:id/rsvp", h.Rsvp)
	authed.DELETE("/events/:id/rsvp", h.Unrsvp)

	h.registerReportRoutes(rg)
}

func (h *Handler) eventByID(c *gin.Context) (*models.Event, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return nil, false
	}

	var event models.Event
	if err := h.db.First(&event, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return nil, false
	}
	return &event, true
}

// requireMember enforces the member-only rule on event pages. The
// response carries the group id so clients can route the user there,
// the JSON equivalent of the old redirect-with-notice.
func (h *Handler) requireMember(c *gin.Context, userID, groupID uint) bool {
	member, err := models.IsMember(h.db, userID, groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "You cannot see this event because you are not a member",
			"group_id": groupID,
		})
		return false
	}
	return true
}
