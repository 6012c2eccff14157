package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"teamhub/pkg/logger"
	"teamhub/pkg/metrics"
	"teamhub/team-service/internal/app/team/entity"
)

// SetupRoutes настраивает все маршруты Team Service с использованием Gin
// Все доменные эндпоинты требуют JWT, роли проверяются точечно
func SetupRoutes(
	userHandler *UserHandler,
	eventHandler *EventHandler,
	feedbackHandler *FeedbackHandler,
	summaryHandler *SummaryHandler,
	notificationHandler *NotificationHandler,
	announcementHandler *AnnouncementHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("team-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint - публичный, без аутентификации
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "team-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := router.Group("/users")
	users.Use(authMiddleware.Authenticate())
	{
		users.GET("", userHandler.GetUsers)
		users.GET("/:user_id", userHandler.GetUser)

		// Создание и удаление пользователей - только admin
		// Удаление запускает каскад по обратной связи, уведомлениям и сводкам
		users.POST("", authMiddleware.RequireRole(entity.RoleAdmin), userHandler.CreateUser)
		users.DELETE("/:user_id", authMiddleware.RequireRole(entity.RoleAdmin), userHandler.DeleteUser)
	}

	events := router.Group("/events")
	events.Use(authMiddleware.Authenticate())
	{
		events.GET("", eventHandler.GetEvents)
		events.GET("/:event_id", eventHandler.GetEvent)

		events.POST("", authMiddleware.RequireRole(entity.RoleManager, entity.RoleStaff), eventHandler.CreateEvent)
		// Удалять может создатель события или admin, проверка в сервисе
		events.DELETE("/:event_id", eventHandler.DeleteEvent)
	}

	feedback := router.Group("/feedback")
	feedback.Use(authMiddleware.Authenticate())
	{
		feedback.POST("", authMiddleware.RequireRole(entity.RoleManager, entity.RoleStaff), feedbackHandler.CreateFeedback)
		feedback.GET("/event/:event_id", feedbackHandler.GetFeedbackByEvent)
		feedback.GET("/player/:player_id", feedbackHandler.GetFeedbackForPlayer)
		feedback.DELETE("/:feedback_id", feedbackHandler.DeleteFeedback)
	}

	summaries := router.Group("/summaries")
	summaries.Use(authMiddleware.Authenticate())
	{
		summaries.GET("/pair/:creator_id/:receiver_id", summaryHandler.GetSummary)
		summaries.GET("/player/:player_id", summaryHandler.GetSummariesForPlayer)
	}

	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware.Authenticate())
	{
		notifications.GET("", notificationHandler.GetNotifications)
		notifications.PATCH("/:notification_id/read", notificationHandler.MarkRead)
	}

	announcements := router.Group("/announcements")
	announcements.Use(authMiddleware.Authenticate())
	{
		announcements.GET("", announcementHandler.GetAnnouncements)
		announcements.POST("", authMiddleware.RequireRole(entity.RoleAdmin, entity.RoleManager), announcementHandler.CreateAnnouncement)
	}

	return router
}
