package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roomsewa/internal/config"
	"roomsewa/internal/database"
	"roomsewa/internal/domain"
	"roomsewa/internal/middleware"
	"roomsewa/internal/modules/admin"
	"roomsewa/internal/modules/auth"
	"roomsewa/internal/modules/booking"
	"roomsewa/internal/modules/catalog"
	"roomsewa/internal/modules/notification"
	"roomsewa/internal/modules/payment"
	"roomsewa/internal/modules/review"
	"roomsewa/internal/modules/slots"
	jwtsvc "roomsewa/internal/pkg/jwt"
	"roomsewa/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	slotRepo := repository.NewSlotRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	notifService := notification.NewService(notifRepo, hub)
	notifHandler := notification.NewHandler(notifService, hub, j)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(roomRepo, serviceRepo, historyRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	slotManager := slots.NewManager(slotRepo, cfg.SlotLockTTL)

	verifiers := map[domain.PaymentMethod]payment.Verifier{
		domain.PayEsewa:  payment.NewEsewaVerifier(cfg.EsewaStatusURL, cfg.EsewaProductCode),
		domain.PayKhalti: payment.NewKhaltiVerifier(cfg.KhaltiLookupURL, cfg.KhaltiSecretKey),
	}

	bookingService := booking.NewService(
		bookingRepo,
		roomRepo,
		slotManager,
		slotRepo,
		notifService,
		historyRepo,
		verifiers,
	)
	bookingHandler := booking.NewHandler(bookingService)

	reviewService := review.NewService(reviewRepo, roomRepo)
	reviewHandler := review.NewHandler(reviewService)

	adminService := admin.NewService(userRepo, roomRepo, bookingRepo, 5*time.Minute)
	adminHandler := admin.NewHandler(adminService)

	r := gin.Default()
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		reviewHandler.RegisterPublicRoutes(v1)
		notifHandler.RegisterStream(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			catalogHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			reviewHandler.RegisterProtectedRoutes(protected)
			notifHandler.RegisterRoutes(protected)

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterRoutes(adminGroup)
				bookingHandler.RegisterAdminRoutes(adminGroup)
				catalogHandler.RegisterAdminRoutes(adminGroup)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopSweeper := slotManager.StartSweeper(ctx, cfg.SweepInterval)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	close(stopSweeper)
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
