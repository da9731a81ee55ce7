package routes

import (
	"net/http"
	"time"

	"stagelink/handlers"
	"stagelink/middleware"
	"stagelink/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignUpHandler)
		api.POST("/signin", hb.SignInHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("/signout", hb.SignOutHandler)
		protected.GET("/me", hb.GetProfileHandler)
		protected.PATCH("/me", hb.UpdateProfileHandler)
		protected.PUT("/me/fcm-token", hb.UpdateFCMTokenHandler)
	}
	r.GET("/api/talents", hb.ListTalentsHandler)
}

// RegisterBookingRoutes registers event and booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	events := r.Group("/api/events")
	{
		events.Use(middleware.JWTAuthMiddleware(), middleware.RequireOrganizer())
		events.POST("", hb.CreateEventHandler)
		events.GET("", hb.ListEventsHandler)
	}

	bookings := r.Group("/api/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware())
		bookings.POST("", middleware.RequireOrganizer(), hb.CreateBookingHandler)
		bookings.GET("", hb.ListBookingsHandler)
		bookings.GET("/:id", hb.GetBookingHandler)
		bookings.PUT("/:id/accept", middleware.RequireTalent(), hb.AcceptBookingHandler)
		bookings.PUT("/:id/decline", middleware.RequireTalent(), hb.DeclineBookingHandler)
		bookings.PUT("/:id/start", middleware.RequireTalent(), hb.StartBookingHandler)
		bookings.PUT("/:id/complete", middleware.RequireOrganizer(), hb.CompleteBookingHandler)
		bookings.PUT("/:id/cancel", middleware.RequireOrganizer(), hb.CancelBookingHandler)
	}
}

// RegisterPaymentRoutes registers charge and payout endpoints. The webhook is
// unauthenticated; its HMAC signature is the credential.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.PaystackWebhookHandler)

	payments := r.Group("/api/payments")
	{
		payments.Use(middleware.JWTAuthMiddleware())
		payments.POST("/initialize", middleware.RequireOrganizer(), hb.InitializePaymentHandler)
		payments.GET("/verify/:reference", hb.VerifyPaymentHandler)
	}

	payouts := r.Group("/api/payouts")
	{
		payouts.Use(middleware.JWTAuthMiddleware(), middleware.RequireTalent())
		payouts.GET("", hb.ListPayoutsHandler)
		payouts.PUT("/:id/verify", hb.VerifyPayoutHandler)
	}
}

// RegisterMessagingRoutes registers conversation and live-stream endpoints.
func RegisterMessagingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	messages := r.Group("/api/messages")
	{
		messages.Use(middleware.JWTAuthMiddleware())
		messages.POST("", hb.SendMessageHandler)
		messages.PATCH("/:id/read", hb.MarkMessageReadHandler)
		messages.GET("/booking/:bookingId", hb.ListMessagesHandler)
	}

	r.GET("/api/stream", middleware.JWTAuthMiddleware(), hb.StreamHandler)
}

// RegisterNotificationRoutes registers in-app notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	notifications := r.Group("/api/notifications")
	{
		notifications.Use(middleware.JWTAuthMiddleware())
		notifications.GET("", hb.ListNotificationsHandler)
		notifications.PUT("/:id/read", hb.MarkNotificationReadHandler)
		notifications.PUT("/read-all", hb.MarkAllNotificationsReadHandler)
	}
}

// RegisterKYCRoutes registers identity-verification endpoints.
func RegisterKYCRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	kyc := r.Group("/api/kyc")
	{
		kyc.Use(middleware.JWTAuthMiddleware())
		kyc.POST("/submit", middleware.RequireTalent(), hb.SubmitKYCHandler)
		kyc.GET("/status", middleware.RequireTalent(), hb.GetKYCStatusHandler)
		kyc.POST("/documents", middleware.RequireTalent(), hb.UploadKYCDocumentHandler)
	}
}

// RegisterStorageRoutes registers public media upload endpoints.
func RegisterStorageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	storage := r.Group("/api/storage")
	{
		storage.Use(middleware.JWTAuthMiddleware())
		storage.POST("/upload", hb.UploadFileHandler)
	}
}

// RegisterAdminRoutes registers moderation endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		admin.GET("/users", hb.AdminListUsersHandler)
		admin.PUT("/users/:id/active", hb.AdminSetActiveHandler)
		admin.GET("/duplicates", hb.AdminFindDuplicatesHandler)
		admin.POST("/merge", hb.AdminMergeAccountsHandler)
		admin.GET("/kyc/pending", hb.ListPendingKYCHandler)
		admin.PUT("/kyc/:id/review", hb.ReviewKYCHandler)
		admin.GET("/storage/secure-url", hb.GetSecureURLHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware())

	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterMessagingRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterKYCRoutes(r, hb)
	RegisterStorageRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
