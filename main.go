package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonify/config"
	"salonify/cron"
	"salonify/database"
	"salonify/database/repository"
	"salonify/handlers"
	"salonify/middleware"
	"salonify/routes"
	"salonify/services/audit"
	"salonify/services/catalog"
	"salonify/services/events"
	"salonify/services/notification"
	"salonify/services/payment"
	"salonify/services/promotion"
	"salonify/services/reservation"
	"salonify/services/user"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	utils.SetJWTSecret(cfg.JWTSecret)
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "" || cfg.StripeKey == "" || cfg.StripeWebhookSecret == "" {
			logger.Fatal("main: JWT_SECRET, STRIPE_KEY and STRIPE_WEBHOOK_SECRET are required in production")
		}
	}

	database.InitDB()
	utils.InitRedis()
	db := database.DB()

	// repositories.
	userRepo := repository.NewMongoUserRepository(db)
	reservationRepo := repository.NewMongoReservationRepo(db)
	promotionRepo := repository.NewMongoPromotionRepo(db)
	paymentRepo := repository.NewMongoPaymentRepo(db)
	catalogRepo := repository.NewMongoCatalogRepo(db)
	auditRepo := repository.NewMongoAuditRepo(db)

	// infrastructure.
	sessions := utils.NewRedisSessionStore(utils.GetAuthCacheClient())
	locker := utils.NewRedisLocker(utils.GetCacheClient())

	publisher, err := events.NewPublisher(cfg.KafkaBrokerList(), cfg.KafkaTopic)
	if err != nil {
		logger.Fatal("main: failed to initialize event publisher", zap.Error(err))
	}

	queue := asynq.NewClient(cron.QueueRedisOpt())
	mailer := notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	notificationService, err := notification.NewDefaultNotificationService(queue, mailer)
	if err != nil {
		logger.Fatal("main: failed to initialize notification service", zap.Error(err))
	}
	gateway := payment.NewStripeGateway(cfg.StripeKey, cfg.StripeWebhookSecret)

	// services.
	recorder := audit.NewRecorder(auditRepo)
	userService := user.NewUserService(userRepo, sessions, time.Duration(cfg.TokenTTLHours)*time.Hour)
	catalogService := catalog.NewCatalogService(catalogRepo, recorder, cfg.Currency)
	promotionService := promotion.NewPromotionService(promotionRepo)
	reservationService := reservation.NewReservationService(
		reservationRepo, catalogRepo, promotionService, locker, recorder, publisher, cfg.Currency,
	)
	paymentService := payment.NewPaymentService(
		reservationRepo, paymentRepo, userRepo, catalogRepo, gateway, locker, recorder, publisher, notificationService,
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions:     sessions,
		CookieName:   cfg.SessionCookieName,
		Auth:         handlers.NewAuthHandler(userService, cfg.SessionCookieName),
		Catalog:      handlers.NewCatalogHandler(catalogService),
		Promotions:   handlers.NewPromotionHandler(promotionService),
		Reservations: handlers.NewReservationHandler(reservationService),
		Payments:     handlers.NewPaymentHandler(paymentService),
		Admin:        handlers.NewAdminHandler(recorder),
		Health:       handlers.NewHealthHandler(),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	// Background work.
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	queueRedis := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB})
	utils.StartHealthMonitor(monitorCtx,
		[]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient(), queueRedis},
		database.MongoClient,
	)
	worker := cron.InitConfirmationWorker(notificationService)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}

	worker.Shutdown()
	stopMonitor()
	if err := queue.Close(); err != nil {
		logger.Warn("main: failed to close task queue", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("main: failed to close event publisher", zap.Error(err))
	}
	_ = queueRedis.Close()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
