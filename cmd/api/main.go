package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/luken/goalsbingo-api/internal/config"
	"github.com/luken/goalsbingo-api/internal/database"
	"github.com/luken/goalsbingo-api/internal/routes"
	"github.com/luken/goalsbingo-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	services.Init(database.DB, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	services.Dispatch.Start(ctx, time.Second)

	app := fiber.New(fiber.Config{
		AppName: "goalsbingo-api",
	})
	app.Use(cors.New())
	app.Static("/uploads", cfg.UploadDir)

	routes.Setup(app)

	go func() {
		exit := make(chan os.Signal, 1)
		signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
		<-exit
		log.Println("Shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
