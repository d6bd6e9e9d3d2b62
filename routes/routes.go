package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"zetchat-api/config"
	"zetchat-api/controllers"
	"zetchat-api/middleware"
	"zetchat-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	// Services
	followService := services.NewFollowService(db)
	requestService := services.NewChatRequestService(db)
	chatService := services.NewChatService(db)
	messageService := services.NewMessageService(db)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, emailService)
	userController := controllers.NewUserController(db, followService)
	chatRequestController := controllers.NewChatRequestController(requestService)
	chatController := controllers.NewChatController(chatService)
	messageController := controllers.NewMessageController(messageService)
	adminController := controllers.NewAdminController(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public, stricter rate limit)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(10, 5))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/verify-email", authController.VerifyEmail)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.POST("/auth/logout", authController.Logout)

		// User routes
		users := protected.Group("/users")
		{
			users.GET("/profile", userController.GetProfile)
			users.PUT("/profile", userController.UpdateProfile)
			users.GET("/:id", userController.GetUser)
			users.POST("/:id/follow", userController.FollowUser)
			users.DELETE("/:id/follow", userController.UnfollowUser)
			users.GET("/:id/followers", userController.GetFollowers)
			users.GET("/:id/following", userController.GetFollowing)
		}

		// Chat request routes
		chatRequests := protected.Group("/chat-requests")
		{
			chatRequests.POST("/", chatRequestController.Create)
			chatRequests.GET("/incoming", chatRequestController.GetIncoming)
			chatRequests.GET("/outgoing", chatRequestController.GetOutgoing)
			chatRequests.POST("/:id/accept", chatRequestController.Accept)
			chatRequests.POST("/:id/reject", chatRequestController.Reject)
			chatRequests.POST("/:id/cancel", chatRequestController.Cancel)
		}

		// Chat routes
		chats := protected.Group("/chats")
		{
			chats.GET("/", chatController.GetChats)
			chats.POST("/", chatController.CreateGroupChat)
			chats.GET("/:id/participants", chatController.GetParticipants)
			chats.POST("/:id/participants", chatController.AddParticipant)
			chats.DELETE("/:id/participants/:user_id", chatController.RemoveParticipant)
			chats.PUT("/:id/participants/:user_id/role", chatController.ChangeRole)

			chats.GET("/:id/messages", messageController.GetMessages)
			chats.POST("/:id/messages", messageController.SendMessage)
			chats.POST("/:id/read", messageController.MarkRead)
			chats.GET("/:id/unread-count", messageController.GetUnreadCount)
		}

		// Admin routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/stats", adminController.GetStats)
			admin.GET("/pending-verifications", adminController.GetPendingVerifications)
			admin.POST("/verify/:user_id", adminController.VerifyUser)
		}
	}
}

// SetupCORS allows the configured frontend origins
func SetupCORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
