package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/api/http/handler"
	"github.com/Alijeyrad/eunoia_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/auth"
	"github.com/Alijeyrad/eunoia_backend/internal/service/booking"
	"github.com/Alijeyrad/eunoia_backend/internal/service/history"
	"github.com/Alijeyrad/eunoia_backend/internal/service/mood"
	"github.com/Alijeyrad/eunoia_backend/internal/service/user"
	"github.com/Alijeyrad/eunoia_backend/pkg/observability"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	DB            *repo.Client            `optional:"true"`
	Redis         *redis.Client           `optional:"true"`
	OTel          *observability.Provider `optional:"true"`
	AssessmentSvc assessment.Service
	MoodSvc       mood.Service
	BookingSvc    booking.Service
	HistorySvc    history.Service
	AuthSvc       auth.Service
	UserSvc       user.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	adminRequired := middleware.AdminRequired(r.p.AuthSvc)

	assessmentH := handler.NewAssessmentHandler(r.p.AssessmentSvc)
	moodH := handler.NewMoodHandler(r.p.MoodSvc, r.p.Cfg.Screening.RecentMoods)
	bookingH := handler.NewBookingHandler(r.p.BookingSvc)
	historyH := handler.NewHistoryHandler(r.p.HistorySvc)
	questionnaireH := handler.NewQuestionnaireHandler()
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.UserSvc, r.p.Cfg.Server.IsProduction())
	userH := handler.NewUserHandler(r.p.UserSvc)

	api := app.Group("/api")

	r.registerScreeningRoutes(api, assessmentH, moodH, bookingH, historyH, questionnaireH)
	r.registerAuthRoutes(api, authH)
	r.registerAdminRoutes(api, adminRequired, assessmentH, moodH, bookingH, userH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return r.ready(c.Context()) },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.OTel != nil && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(r.p.OTel.MetricsHandler()))
	}
}

// ready reports whether the database and Redis answer.
func (r *Router) ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if r.p.DB != nil && r.p.DB.Ping(ctx) != nil {
		return false
	}
	if r.p.Redis != nil && r.p.Redis.Ping(ctx).Err() != nil {
		return false
	}
	return true
}
