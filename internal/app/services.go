package app

import (
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/eunoia_backend/config"
	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/internal/service/assessment"
	"github.com/Alijeyrad/eunoia_backend/internal/service/auth"
	"github.com/Alijeyrad/eunoia_backend/internal/service/booking"
	"github.com/Alijeyrad/eunoia_backend/internal/service/history"
	"github.com/Alijeyrad/eunoia_backend/internal/service/identity"
	"github.com/Alijeyrad/eunoia_backend/internal/service/mood"
	"github.com/Alijeyrad/eunoia_backend/internal/service/notification"
	"github.com/Alijeyrad/eunoia_backend/internal/service/user"
	"github.com/Alijeyrad/eunoia_backend/pkg/email"
	pasetotoken "github.com/Alijeyrad/eunoia_backend/pkg/paseto"
	"github.com/Alijeyrad/eunoia_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideAuthService,
		ProvideResolver,
		ProvideAssessmentService,
		ProvideMoodService,
		ProvideBookingService,
		ProvideHistoryService,
		ProvideUserService,
		ProvideNotificationService,
	),
)

func ProvideAuthService(db *repo.Client, rdb *redis.Client, mgr *pasetotoken.Manager, cfg *config.Config) auth.Service {
	return auth.New(
		db.User,
		auth.NewRedisSessionStore(rdb),
		mgr,
		password.NewHasher(password.FromCentralConfig(cfg.Password)),
		auth.Options{
			AdminPasscode:     cfg.Admin.Passcode,
			MinPasswordLength: cfg.Authentication.MinPasswordLength,
		},
	)
}

// ProvideResolver backs identity resolution with student sessions.
func ProvideResolver(authSvc auth.Service) *identity.Resolver {
	return identity.NewResolver(authSvc, slog.Default().With("component", "identity"))
}

func ProvideAssessmentService(db *repo.Client, rdb *redis.Client, resolver *identity.Resolver, cfg *config.Config) assessment.Service {
	ttl := time.Duration(cfg.Screening.SummaryCacheSeconds) * time.Second
	return assessment.New(db.Assessment, resolver, assessment.NewRedisSummaryCache(rdb, ttl))
}

func ProvideMoodService(db *repo.Client, resolver *identity.Resolver) mood.Service {
	return mood.New(db.MoodLog, resolver)
}

type bookingParams struct {
	fx.In

	DB       *repo.Client
	Resolver *identity.Resolver
	NC       *nats.Conn `optional:"true"`
}

func ProvideBookingService(p bookingParams) booking.Service {
	// A nil *nats.Conn must not become a non-nil Publisher.
	var pub booking.Publisher
	if p.NC != nil {
		pub = p.NC
	}
	return booking.New(p.DB.Booking, p.Resolver, pub)
}

func ProvideHistoryService(db *repo.Client, resolver *identity.Resolver, cfg *config.Config) history.Service {
	return history.New(db.Assessment, db.MoodLog, db.Booking, resolver, history.Limits{
		Assessments: cfg.Screening.HistoryAssessments,
		Moods:       cfg.Screening.HistoryMoods,
		Bookings:    cfg.Screening.HistoryBookings,
	})
}

func ProvideUserService(db *repo.Client) user.Service {
	return user.New(db.User)
}

func ProvideNotificationService(db *repo.Client, mailer *email.Client, cfg *config.Config) notification.Service {
	return notification.New(db.Booking, mailer, email.FromCentralConfig(cfg))
}
