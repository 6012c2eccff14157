package handler

import (
	"errors"
	"net/http"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type EventHandler struct {
	eventService service.EventServiceInterface
	validator    *validator.Validate
}

func NewEventHandler(eventService service.EventServiceInterface) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validator.New(),
	}
}

// CreateEvent создает событие клуба, создателем становится пользователь из JWT
func (h *EventHandler) CreateEvent(c *gin.Context) {
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

	var req entity.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), userIDStr, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStartTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must be RFC3339"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvents получает все события клуба
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventService.GetEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// GetEvent получает событие по ID
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent удаляет событие со всеми зависимыми данными
// Доступно создателю события или admin
func (h *EventHandler) DeleteEvent(c *gin.Context) {
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

	role := c.GetString("role")

	eventID := c.Param("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), eventID, userIDStr, role); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, service.ErrNotEventOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Event deleted successfully",
	})
}
