package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yebeniyam/bingo/config"
	"github.com/yebeniyam/bingo/controllers"
	"github.com/yebeniyam/bingo/game"
	"github.com/yebeniyam/bingo/routes"
	"github.com/yebeniyam/bingo/services"
	"github.com/yebeniyam/bingo/store"
	"github.com/yebeniyam/bingo/utils/logger"
)

func init() {
	// Amounts render as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// setupStore picks the backing medium: postgres when DATABASE_URL is set,
// in-process memory otherwise.
func setupStore(cfg *config.Config) store.Store {
	if cfg.DatabaseURL == "" {
		logger.Infof("using in-memory store")
		return store.NewMemory()
	}
	pg, err := store.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("failed to connect to postgres store: %v", err)
	}
	logger.Infof("using postgres store")
	return pg
}

// setupRouter initializes Gin routes and middleware
func setupRouter(
	sessions *controllers.SessionController,
	stream *controllers.StreamController,
	cards *controllers.CardController,
	wallet *controllers.WalletController,
	ws *services.WSService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, sessions, stream, cards, wallet, ws)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	return r
}

func main() {
	cfg := config.Load()
	log := logger.Log

	st := setupStore(cfg)

	pool := game.GenerateCardPool(cfg.CardPoolSize)
	log.Infof("generated card pool of %d cards", len(pool))

	hub := services.NewHub(log)
	provider := services.NewMockProvider(log)
	wallet := services.NewWallet(st, provider, cfg, log)

	registry := game.NewRegistry(st, wallet, hub, cfg, log, pool)
	supervisor := game.NewSupervisor(wallet, hub, game.NewClock(), cfg, log, registry)
	registry.SetStarter(supervisor)

	router := setupRouter(
		controllers.NewSessionController(registry),
		controllers.NewStreamController(registry, hub, cfg),
		controllers.NewCardController(registry),
		controllers.NewWalletController(wallet),
		services.NewWSService(hub, registry, cfg, log),
	)

	log.Infof("bingo backend starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
