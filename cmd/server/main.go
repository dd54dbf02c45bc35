package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go-event-ticketing/config"
	"go-event-ticketing/internal/cache"
	"go-event-ticketing/internal/database"
	"go-event-ticketing/internal/handler"
	"go-event-ticketing/internal/queue"
	"go-event-ticketing/internal/repository"
	"go-event-ticketing/internal/service"
	"go-event-ticketing/internal/worker"
	"go-event-ticketing/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Apply(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	eventRepo := repository.NewEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	availabilityCache := cache.NewEventAvailabilityCache(rdb)

	reservationFeed, err := queue.NewRedisStreamReservationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize reservation feed: %v", err)
	}

	eventService := service.NewEventService(eventRepo, availabilityCache)
	reservationService := service.NewReservationService(pool, eventRepo, ticketRepo, availabilityCache, reservationFeed)
	ticketService := service.NewTicketService(pool, ticketRepo, eventRepo, reservationFeed)

	reservationWorker := worker.NewReservationWorker(availabilityCache, reservationFeed)
	if err := reservationWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start reservation worker: %v", err)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewReservationHandler(reservationService).RegisterRoutes(router)
	handler.NewTicketHandler(ticketService).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
