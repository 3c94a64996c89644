package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-registry/core/listing"
	"qr-registry/core/loader"
	"qr-registry/core/logger"
	"qr-registry/core/middleware/auth"
	"qr-registry/core/middleware/rayid"
	"qr-registry/core/session"
	"qr-registry/feature/integrity"
	"qr-registry/feature/media"
	"qr-registry/feature/records"
	"qr-registry/feature/scanner"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "qr-registry/docs/swagger"
)

// @title QR Registry API
// @version 1.0
// @description API for scanning QR codes and managing the records they map to.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the registry server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, logger, record store and blob store
		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.log
		zap.ReplaceGlobals(logg)

		if !a.cfg.Server.IsValidPort() {
			logg.Fatal("Invalid server port", zap.String("port", a.cfg.Server.Port))
		}

		// 2. Make sure media can be written
		if err := a.uploader.EnsureBucket(ctx); err != nil {
			logg.Warn("Media bucket unavailable, uploads will fail until it is reachable", zap.Error(err))
		}

		// 3. Shared listing and scan sessions
		cache := listing.New()
		if _, err := cache.Refresh(ctx, a.engine.All); err != nil {
			logg.Warn("Initial listing load failed", zap.Error(err))
		}
		sessions := session.NewManager(a.engine, cache, logg, a.operationTimeout())

		spool, err := media.NewSpool(a.cfg.Scan.SpoolDir)
		if err != nil {
			logg.Fatal("Failed to prepare media spool", zap.Error(err))
		}

		// 4. Features
		mgr := loader.NewManager(logg)
		scan := scanner.NewFeature(sessions, spool, logg)
		mgr.Register(records.NewFeature(a.engine, cache, spool, a.cfg.Scan.RecentLimit, logg))
		mgr.Register(scan)
		mgr.Register(integrity.NewFeature(a.blobs, a.cfg.Storage, logg, a.db, a.engine.All))

		go scan.Service().Run(ctx, time.Duration(a.cfg.Scan.SessionTTLMinutes)*time.Minute)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every log line can be traced
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Info("Request handled",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("port", a.cfg.Server.Port),
				zap.Strings("features", mgr.Names()),
				zap.Int("records", cache.Len()),
			)
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		<-ctx.Done()
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
