package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/olehvh/cek-outage-api/internal/service"
	"github.com/olehvh/cek-outage-api/pkg/response"
)

// ScheduleHandler exposes the reconciled outage schedules.
type ScheduleHandler struct {
	service *service.OutageService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.OutageService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// GetGroup returns the reconciled schedule for a single group.
func (h *ScheduleHandler) GetGroup(c *gin.Context) {
	schedule, err := h.service.GroupSchedule(c.Request.Context(), c.Param("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// ListFeed returns the full feed-derived schedule for every group the feed
// currently mentions.
func (h *ScheduleHandler) ListFeed(c *gin.Context) {
	schedule, err := h.service.FeedSchedule(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}
