package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neatly/config"
	"neatly/cron"
	"neatly/database"
	auditRepoPkg "neatly/database/repository/audit"
	bookingRepoPkg "neatly/database/repository/booking"
	clientRepoPkg "neatly/database/repository/client"
	contractorRepoPkg "neatly/database/repository/contractor"
	"neatly/handlers"
	"neatly/middleware"
	"neatly/routes"
	"neatly/services/admin"
	"neatly/services/booking"
	"neatly/services/notification"
	"neatly/services/payment"
	"neatly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Repositories.
	bookings := bookingRepoPkg.NewMongoBookingRepo()
	contractors := contractorRepoPkg.NewMongoContractorRepo()
	clients := clientRepoPkg.NewMongoClientRepo()
	audit := auditRepoPkg.NewMongoAuditRepo()

	if err := bookings.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// Background queue client.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	notifier := notification.NewAsynqNotifier(queueClient, logger)
	refundEmitter := payment.NewAsynqRefundEmitter(queueClient, logger)

	// Services.
	resolver := booking.LondonPostcodeResolver{}
	pricing := booking.NewPricingCalculator(nil)

	matchingService := &booking.DefaultMatchingService{
		ContractorRepo: contractors,
		Resolver:       resolver,
		CacheClient:    utils.GetCacheClient(),
		DefaultRadius:  config.AppConfig.DefaultRadiusMiles,
		DefaultLimit:   config.AppConfig.MatchLimit,
		Logger:         logger,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:           bookings,
		ContractorRepo: contractors,
		ClientRepo:     clients,
		Resolver:       resolver,
		Pricing:        pricing,
		Notifier:       notifier,
		Logger:         logger,
	}

	overrideService := &admin.DefaultOverrideService{
		Bookings:    bookings,
		Contractors: contractors,
		Audit:       audit,
		Notifier:    notifier,
		Refunds:     refundEmitter,
		Logger:      logger,
	}

	assigner := &booking.AutoAssigner{
		Repo:          bookings,
		Matcher:       matchingService,
		Notifier:      notifier,
		Timeout:       time.Duration(config.AppConfig.AutoAssignTimeoutHours) * time.Hour,
		MaxCandidates: config.AppConfig.AutoAssignMaxCandidates,
		Logger:        logger,
	}

	// Background worker: push delivery, refund execution, auto-assignment.
	cron.InitWorker(cron.WorkerDeps{
		Bookings: bookings,
		Push: &notification.PushSender{
			Clients:     clients,
			Contractors: contractors,
			Logger:      logger,
		},
		Refunder: &payment.StripeRefunder{Logger: logger},
		Assigner: assigner,
		Logger:   logger,
	})

	// Handlers.
	handlerBundle := &handlers.HandlerBundle{
		Booking:    handlers.NewBookingHandler(bookingService, logger),
		Contractor: handlers.NewContractorHandler(bookingService, contractors, logger),
		Client:     handlers.NewClientHandler(clients, logger),
		Search:     handlers.NewSearchHandler(matchingService, logger),
		Admin:      handlers.NewAdminHandler(overrideService, logger),
		Pricing:    pricing,
	}

	// Router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	routes.RegisterRoutes(router, handlerBundle)

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
