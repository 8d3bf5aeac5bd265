package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"street-sync/core/config"
	"street-sync/core/database"
	"street-sync/core/loader"
	"street-sync/core/logger"
	"street-sync/core/middleware/auth"
	"street-sync/core/middleware/rayid"
	"street-sync/core/storage"
	"street-sync/feature/streets"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Street Sync API
// @version 1.0
// @description API for reconciling the street address feed with the canonical registry.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the street sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the registry (optional, runs fail until it is reachable)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Registry database connection failed", zap.Error(err))
		} else {
			db = conn
			logg.Info("Connected to registry database", zap.String("driver", cfg.Database.Driver))
		}

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 5. Register Features
		mgr := loader.NewManager()
		mgr.Register(streets.NewFeature(store, cfg.Storage.Bucket, logg, db, cfg.Feed, cfg.Snapshot))

		// Middleware: ray id first so every log line carries it
		app.Use(rayid.New())
		app.Use(requestLogger(logg))

		// Swagger stays public
		registerSwagger(app, logg)

		if cfg.Server.AuthEnabled() {
			app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		} else {
			logg.Warn("API key not configured, the API is unprotected")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// registerSwagger serves the API docs when a generated docs package is
// linked in (make docs). It reports whether the route was registered.
func registerSwagger(app fiber.Router, logg *zap.Logger) bool {
	if _, err := swag.ReadDoc(); err != nil {
		logg.Warn("Swagger docs not generated, /swagger disabled", zap.Error(err))
		return false
	}
	app.Get("/swagger/*", swagger.HandlerDefault)
	return true
}

// requestLogger logs every request with its ray id.
func requestLogger(logg *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
