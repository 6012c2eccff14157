package handler

import (
	"net/http"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementServiceInterface
	validator           *validator.Validate
}

func NewAnnouncementHandler(announcementService service.AnnouncementServiceInterface) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		validator:           validator.New(),
	}
}

// CreateAnnouncement публикует объявление клуба (admin или manager)
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return
	}

	var req entity.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(c.Request.Context(), userIDStr, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// GetAnnouncements получает все объявления клуба
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	announcements, err := h.announcementService.GetAnnouncements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"total":         len(announcements),
	})
}
