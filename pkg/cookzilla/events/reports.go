package events

import (
	"net/http"
	"strconv"

	"github.com/cookzilla/cookzilla/pkg/cookzilla/auth"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/models"
	"github.com/cookzilla/cookzilla/pkg/cookzilla/pagination"
	"github.com/gin-gonic/gin"
)

// CreateReportRequest represents the request to publish a report
type CreateReportRequest struct {
	Title string `json:"title" binding:"required,max=64"`
	Body  string `json:"body" binding:"required"`
}

// CreateReport appends a post-event report. Reports cannot be edited
// or deleted afterwards.
// @Summary Publish an event report
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body CreateReportRequest true "Report"
// @Success 201 {object} models.Report
// @Failure 403 {object} map[string]string "Not a group member"
// @Security BearerAuth
// @Router /events/{id}/reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	event, ok := h.eventByID(c)
	if !ok {
		return
	}
	if !h.requireMember(c, user.ID, event.GroupID) {
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := models.Report{
		EventID:  event.ID,
		AuthorID: user.ID,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// Reports lists an event's reports. The default order is ascending by
// submission time (chronological reading order); pass order=desc for
// latest first.
// @Summary List event reports
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param page query int false "Page number"
// @Param order query string false "asc (default) or desc"
// @Success 200 {object} pagination.Page[models.Report]
// @Failure 403 {object} map[string]string "Not a group member"
// @Security BearerAuth
// @Router /events/{id}/reports [get]
func (h *Handler) Reports(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	event, ok := h.eventByID(c)
	if !ok {
		return
	}
	if !h.requireMember(c, user.ID, event.GroupID) {
		return
	}

	order := "created_at ASC"
	if c.Query("order") == "desc" {
		order = "created_at DESC"
	}

	page, err := pagination.Paginate[models.Report](
		h.db.Model(&models.Report{}).
			Preload("Author").
			Where("event_id = ?", event.ID).
			Order(order),
		reportPageParam(c), h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) registerReportRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("", auth.RequireAuth(h.db))
	authed.GET("/events/:id/reports", h.Reports)
	authed.POST("/events/:id/reports", h.CreateReport)
}

func reportPageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
