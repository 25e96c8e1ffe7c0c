package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/2507-aws-himawari/menkoverse-services/configs"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/broker"
	svcconfig "github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/config"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/db"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/engine"
	handlers "github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/handlers"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/service"
	"github.com/2507-aws-himawari/menkoverse-services/internal/gamesvc/store"
	nats "github.com/2507-aws-himawari/menkoverse-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()

	// pg connection for catalog, decks and users
	dbpool, err := db.ConnectPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// document store for live game state
	mongoDB, cancelMongo, err := db.ConnectMongo()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancelMongo()

	if err := db.EnsureGameIndexes(context.Background(), mongoDB); err != nil {
		log.Fatalf("Failed to create game indexes: %v", err)
	}

	userStore := store.NewUserStore(dbpool)
	userService := service.NewUserService(userStore)

	followerStore := store.NewFollowerStore(dbpool)
	catalogService := service.NewCatalogService(followerStore)

	deckStore := store.NewDeckStore(dbpool)
	deckService := service.NewDeckService(deckStore, followerStore)

	gameStore := store.NewGameStore(mongoDB, deckStore, followerStore)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// The engine publishes state changes through the broker; the broker
	// feeds socket commands back into the engine.
	b := broker.NewBroker(n.Conn, nil, userService)
	eng := engine.New(gameStore, nil, broker.NewPublisher(b), cfg.DemoMode)
	b.Engine = eng

	if cfg.DemoMode {
		log.Warn("demo mode enabled: forced turn end and start bypass are active")
	}

	// subscribe to socket service
	sub, err := b.Subscribe()
	if err != nil {
		log.Errorf("Error: unable to subscribe to queue %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(eng, deckService, catalogService, userService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
