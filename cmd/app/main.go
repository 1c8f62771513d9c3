package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/wichananm65/userdemo/internal/config"
	"github.com/wichananm65/userdemo/internal/database"
	"github.com/wichananm65/userdemo/internal/logger"
	"github.com/wichananm65/userdemo/internal/middleware"
	"github.com/wichananm65/userdemo/internal/user"
	"github.com/wichananm65/userdemo/internal/validation"
)

type userStore interface {
	user.Repository
	user.Transactor
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open user store", "driver", cfg.Storage.Driver, "error", err)
	}
	if db != nil {
		defer db.Close()
	}

	validator := validation.New(cfg.Validation.UserMinAcceptableAge)
	userService := user.NewService(store, store, log)
	userHandler := user.NewHandler(userService, validator, log)

	app := fiber.New(fiber.Config{
		ErrorHandler:          user.ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	setupCORS(app)

	app.Get("/health", healthCheck(db))

	if cfg.JWT.Secret != "" {
		app.Use("/v1/users", middleware.Auth(cfg.JWT.Secret))
	}
	userHandler.RegisterRoutes(app)

	go func() {
		log.Infow("http server started", "addr", cfg.HTTP.Addr, "storage", cfg.Storage.Driver)
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			log.Errorw("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
	log.Infow("http server shut down")
}

func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, userStore, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		return nil, user.NewInMemoryRepository(nil), nil
	}

	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.Migrate {
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	return db, user.NewPostgresRepository(db), nil
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func healthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
