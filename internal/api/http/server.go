package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/eunoia_backend/internal/api/http/router"
	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
	"github.com/Alijeyrad/eunoia_backend/pkg/observability"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	app := newApp(p.Cfg)

	if p.OTel != nil && p.Cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware())
	}

	configureGlobalMiddleware(app, p.Cfg, p.Redis)

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			slog.Info("http server listening", "addr", addr, "environment", p.Cfg.Server.Environment)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

func newApp(cfg *config.Config) *fiber.App {
	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	return fiber.New(fiber.Config{
		AppName:      constants.AppDisplayName,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})
}

// errorHandler renders unhandled errors as {"error": msg}.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		reqID, _ := middleware.RequestIDFromFiber(c)
		slog.ErrorContext(c.Context(), "unhandled error",
			"request_id", reqID,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.IsProduction() {
		app.Use(helmet.New())
		if rdb != nil {
			app.Use(middleware.NewLimiterWithRedis(rdb, cfg.Server.RequestsPerMinute))
		}
	}

	if cfg.Server.CORS.Enabled {
		app.Use(cors.New(corsConfig(cfg.Server.CORS)))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${respHeader:X-Request-Id}] ${method} ${url} ${status} ${latency}\n",
	}))
}

func corsConfig(c config.CORSConfig) cors.Config {
	return cors.Config{
		AllowOrigins:     c.AllowOrigins,
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAgeSeconds,
	}
}
