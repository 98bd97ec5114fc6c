package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/eunoia_backend/internal/service/notification"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

// bookingEvents matches every booking lifecycle subject.
const bookingEvents = "eunoia.booking.>"

// handleTimeout bounds one notification, SMTP round trip included.
const handleTimeout = 30 * time.Second

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn `optional:"true"`
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Info("notification_worker: nats disabled, not started")
		return
	}

	var sub *nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			sub, err = startNotificationWorker(p.NC, p.NotifSvc)
			return err
		},
		OnStop: func(ctx context.Context) error {
			// Connection drain happens in ProvideNatsClient.
			if sub == nil {
				return nil
			}
			return sub.Unsubscribe()
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

func startNotificationWorker(nc *nats.Conn, notifSvc notification.Service) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(bookingEvents, func(msg *nats.Msg) {
		handleBookingEvent(notifSvc, msg.Subject)
	})
	if err != nil {
		slog.Error("notification_worker: subscribe failed", "subject", bookingEvents, "err", err)
		return nil, err
	}
	slog.Info("notification_worker: started", "subject", bookingEvents)
	return sub, nil
}

func handleBookingEvent(notifSvc notification.Service, subject string) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	err := notifSvc.HandleEvent(ctx, subject)
	switch {
	case err == nil:
	case errors.Is(err, notification.ErrUnknownEvent):
		slog.Debug("notification_worker: ignoring event", "subject", subject)
	case errors.Is(err, notification.ErrBookingNotFound):
		slog.Warn("notification_worker: booking not found", "subject", subject)
	default:
		slog.Warn("notification_worker: notify failed", "subject", subject, "err", err)
	}
}
