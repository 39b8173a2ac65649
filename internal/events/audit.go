package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/frotalog/frotalog/internal/domain"
)

// AuditWriter persists audit entries. repo.AuditRepo satisfies it.
type AuditWriter interface {
	Insert(ctx context.Context, entry domain.AuditEntry) (domain.AuditEntry, error)
}

// NewRouter builds the message router that consumes TopicTrips and writes
// one audit entry per event. Run it with router.Run(ctx). Settled events are
// marked done in inflight, which must be the one given to the Publisher.
func NewRouter(sub message.Subscriber, audit AuditWriter, inflight *Inflight, log *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 5 * time.Second}, NewLoggerAdapter(log))
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
			Logger:          NewLoggerAdapter(log),
		}.Middleware,
	)

	router.AddNoPublisherHandler("audit_log", TopicTrips, sub, AuditHandler(audit, inflight, log))
	return router, nil
}

// AuditHandler returns the handler that turns a trip event into an audit
// entry. Malformed payloads are logged and acked; they would never succeed
// on retry. An event counts as settled in inflight once it is acked.
func AuditHandler(audit AuditWriter, inflight *Inflight, log *slog.Logger) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		e, err := decode(msg)
		if err != nil {
			log.Error("dropping malformed trip event", "error", err)
			inflight.done()
			return nil
		}

		_, err = audit.Insert(msg.Context(), domain.AuditEntry{
			Event:   e.Event,
			TripID:  e.TripID,
			Vehicle: e.Vehicle,
			Driver:  e.Driver,
			Detail:  e.Detail,
		})
		if err != nil {
			return err
		}

		inflight.done()
		log.Debug("audit entry written", "event", e.Event, "vehicle", e.Vehicle)
		return nil
	}
}
