package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-ingestor/internal/bootstrap"
	"github.com/fadilmartias/resume-ingestor/internal/config"
	"github.com/fadilmartias/resume-ingestor/internal/domain/fiber/handler"
	applogger "github.com/fadilmartias/resume-ingestor/internal/logger"
	"github.com/fadilmartias/resume-ingestor/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// maxFilesPerUpload sizes the request body limit together with MAX_UPLOAD_MB.
const maxFilesPerUpload = 20

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	zlog, err := applogger.New(config.LoadLogConfig())
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zlog.Sync()

	appConfig := config.LoadAppConfig()
	ingestConfig := config.LoadIngestConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := bootstrap.NewPipeline(ctx, zlog, 0)
	if err != nil {
		zlog.Fatal("building the ingestion pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	app := fiber.New(fiber.Config{
		AppName:   appConfig.Name,
		BodyLimit: (ingestConfig.MaxUploadMB + 1) * 1024 * 1024 * maxFilesPerUpload,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"success": false, "message": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	handler.NewResumeHandler(pipeline.Ingestion, zlog.Named("handler")).RegisterRoutes(app)

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				zlog.Debug("runtime", zap.Int("goroutines", runtime.NumGoroutine()))
			}
		}
	}()

	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}()

	zlog.Info("server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Error("listen", zap.Error(err))
	}
}
