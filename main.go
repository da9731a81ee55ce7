// File: stagelink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagelink/config"
	"stagelink/cron"
	"stagelink/database"
	bookingRepoPkg "stagelink/database/repository/booking"
	eventRepoPkg "stagelink/database/repository/event"
	kycRepoPkg "stagelink/database/repository/kyc"
	messageRepoPkg "stagelink/database/repository/message"
	notificationRepoPkg "stagelink/database/repository/notification"
	payoutRepoPkg "stagelink/database/repository/payout"
	transactionRepoPkg "stagelink/database/repository/transaction"
	userRepoPkg "stagelink/database/repository/user"
	"stagelink/handlers"
	"stagelink/routes"
	"stagelink/services/admin"
	"stagelink/services/booking"
	"stagelink/services/kyc"
	"stagelink/services/messaging"
	"stagelink/services/notification"
	"stagelink/services/payment"
	"stagelink/services/payout"
	"stagelink/services/paystack"
	"stagelink/services/relay"
	"stagelink/services/user"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	eventRepo := eventRepoPkg.NewMongoEventRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	transactionRepo := transactionRepoPkg.NewMongoTransactionRepo()
	payoutRepo := payoutRepoPkg.NewMongoPayoutRepo()
	messageRepo := messageRepoPkg.NewMongoMessageRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	kycRepo := kycRepoPkg.NewMongoKYCRepo()

	// gateway and relay.
	paystackClient := paystack.NewClient(config.AppConfig.PaystackSecretKey, config.AppConfig.PaystackBaseURL)
	hub := relay.NewHub(logger)

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo:     notificationRepo,
		UserRepo: userRepo,
		Hub:      hub,
	}
	userService := &user.DefaultUserService{
		Repo:     userRepo,
		Notifier: notificationService,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:       bookingRepo,
		EventRepo:  eventRepo,
		UserRepo:   userRepo,
		PayoutRepo: payoutRepo,
		Gateway:    paystackClient,
		Notifier:   notificationService,
	}
	paymentService := &payment.DefaultPaymentService{
		TxRepo:      transactionRepo,
		BookingRepo: bookingRepo,
		UserRepo:    userRepo,
		Gateway:     paystackClient,
		Notifier:    notificationService,
	}
	payoutService := &payout.DefaultPayoutService{
		Repo:        payoutRepo,
		BookingRepo: bookingRepo,
		Gateway:     paystackClient,
		Notifier:    notificationService,
	}
	messagingService := &messaging.DefaultMessagingService{
		Repo:        messageRepo,
		BookingRepo: bookingRepo,
		Hub:         hub,
		Notifier:    notificationService,
	}
	kycService := &kyc.DefaultKYCService{
		Repo:     kycRepo,
		UserRepo: userRepo,
		Notifier: notificationService,
	}
	adminService := &admin.DefaultAdminService{
		UserRepo:         userRepo,
		BookingRepo:      bookingRepo,
		MessageRepo:      messageRepo,
		NotificationRepo: notificationRepo,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserService:         userService,
		BookingService:      bookingService,
		PaymentService:      paymentService,
		PayoutService:       payoutService,
		MessagingService:    messagingService,
		NotificationService: notificationService,
		KYCService:          kycService,
		AdminService:        adminService,
		StorageService:      cloudinaryStorageService,
		EventRepo:           eventRepo,
		Hub:                 hub,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background payout reconciliation.
	cron.InitPayoutWorker(payoutService)

	// Periodic dependency health snapshots behind /health.
	utils.StartHealthMonitor([]*redis.Client{utils.CacheClient, utils.AuthCacheClient}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
