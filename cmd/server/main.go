package main

import (
	"log"
	"os"
	"strings"

	"github.com/benbeisheim/atomicchess-backend/internal/config"
	"github.com/benbeisheim/atomicchess-backend/internal/controller"
	"github.com/benbeisheim/atomicchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.FromOS()
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so main can exit non-zero after they ran.
func run(cfg config.Config) error {

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(logger.New())

	gameManager := service.NewGameManager(cfg.ClockTime, cfg.MatchmakingInterval)
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager)

	controller.SetupRoutes(app, gameService, websocket.Config{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		Origins:         cfg.AllowOrigins,
	})

	log.Printf("atomic chess server listening on %s", cfg.Addr)
	return app.Listen(cfg.Addr)
}
