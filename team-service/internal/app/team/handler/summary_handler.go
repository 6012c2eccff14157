package handler

import (
	"errors"
	"net/http"

	"teamhub/team-service/internal/app/team/entity"
	"teamhub/team-service/internal/app/team/service"

	"github.com/gin-gonic/gin"
)

type SummaryHandler struct {
	summaryService service.SummaryServiceInterface
}

func NewSummaryHandler(summaryService service.SummaryServiceInterface) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// GetSummary получает сводку обратной связи для пары (автор, игрок)
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	creatorID := c.Param("creator_id")
	receiverID := c.Param("receiver_id")
	if creatorID == "" || receiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Creator ID and receiver ID are required"})
		return
	}

	summary, err := h.summaryService.GetSummary(c.Request.Context(), creatorID, receiverID)
	if err != nil {
		if errors.Is(err, service.ErrSummaryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Summary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSummariesForPlayer получает все сводки об игроке от разных авторов
func (h *SummaryHandler) GetSummariesForPlayer(c *gin.Context) {
	playerID := c.Param("player_id")
	if playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Player ID is required"})
		return
	}

	summaries, err := h.summaryService.GetSummariesForReceiver(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get summaries"})
		return
	}

	c.JSON(http.StatusOK, entity.SummaryListResponse{
		Summaries: summaries,
		Total:     len(summaries),
	})
}
