// File: skedy/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skedy/config"
	"skedy/cron"
	"skedy/database"
	availabilityRepo "skedy/database/repository/availability"
	bookingRepo "skedy/database/repository/booking"
	businessRepo "skedy/database/repository/business"
	calendarRepo "skedy/database/repository/calendar"
	providerRepo "skedy/database/repository/provider"
	"skedy/handlers"
	"skedy/middleware"
	"skedy/routes"
	"skedy/services/scheduling"
	"skedy/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bizRepo := businessRepo.NewMongoBusinessRepo()
	provRepo := providerRepo.NewMongoProviderRepo()
	calRepo := calendarRepo.NewMongoCalendarRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()

	// the scheduling engine.
	engine := &scheduling.DefaultAvailabilityEngine{
		Businesses:      bizRepo,
		Providers:       provRepo,
		Calendars:       calRepo,
		Bookings:        bkRepo,
		Availability:    availRepo,
		Buckets:         config.DurationBucketMinutes(),
		HorizonDays:     config.AppConfig.HorizonDays,
		InvalidateCache: utils.InvalidateAvailabilityCache,
	}

	availabilityHandler := handlers.NewAvailabilityHandler(engine, bkRepo)

	// Register routes with the assembled handler.
	routes.RegisterRoutes(router, availabilityHandler)

	// Start the rollover worker (hourly availability horizon maintenance).
	cron.InitRolloverWorker(engine)

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
