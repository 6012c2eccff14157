package handler

import (
	"errors"
	"net/http"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackServiceInterface
	validator       *validator.Validate
}

func NewFeedbackHandler(feedbackService service.FeedbackServiceInterface) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		validator:       validator.New(),
	}
}

// CreateFeedback создает запись обратной связи по игроку
// Автором записи становится пользователь из JWT, он же должен быть создателем события
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
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

	var req entity.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), userIDStr, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, service.ErrNotEventCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the event creator can leave feedback"})
		case errors.Is(err, service.ErrPlayerNotEnrolled):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Player is not enrolled in the event"})
		case errors.Is(err, service.ErrDuplicateFeedback):
			c.JSON(http.StatusConflict, gin.H{"error": "Feedback for this event and player already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create feedback"})
		}
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetFeedbackByEvent получает все записи обратной связи по событию
func (h *FeedbackHandler) GetFeedbackByEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event ID is required"})
		return
	}

	feedback, err := h.feedbackService.GetFeedbackByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback"})
		return
	}

	c.JSON(http.StatusOK, entity.FeedbackListResponse{
		Feedback: feedback,
		Total:    len(feedback),
	})
}

// GetFeedbackForPlayer получает все записи обратной связи об игроке
func (h *FeedbackHandler) GetFeedbackForPlayer(c *gin.Context) {
	playerID := c.Param("player_id")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Player ID is required"})
		return
	}

	feedback, err := h.feedbackService.GetFeedbackForReceiver(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get feedback"})
		return
	}

	c.JSON(http.StatusOK, entity.FeedbackListResponse{
		Feedback: feedback,
		Total:    len(feedback),
	})
}

// DeleteFeedback удаляет запись обратной связи и пересчитывает сводку пары
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
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

	feedbackID := c.Param("feedback_id")
	if feedbackID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Feedback ID is required"})
		return
	}

	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), feedbackID, userIDStr); err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Feedback not found"})
		case errors.Is(err, service.ErrNotEventCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete feedback"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Feedback deleted successfully",
	})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
