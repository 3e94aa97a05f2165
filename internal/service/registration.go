package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

// RegistrationCoordinator books and releases seats. Each call runs one
// transaction over the caller's profile and the target conference, so the
// attendance set and the seat count always change together.
type RegistrationCoordinator struct {
	store  repository.Store
	policy RetryPolicy
}

// NewRegistrationCoordinator constructs a RegistrationCoordinator.
func NewRegistrationCoordinator(store repository.Store, policy RetryPolicy) *RegistrationCoordinator {
	return &RegistrationCoordinator{store: store, policy: policy}
}

// Register books a seat on key for the caller.
//
// Checks run in order: the conference must exist (model.ErrConferenceNotFound),
// the caller must not already attend (model.ErrAlreadyRegistered), and a seat
// must be free unless capacity is unlimited (model.ErrNoSeats).
func (rc *RegistrationCoordinator) Register(ctx context.Context, id model.Identity, key string) (bool, error) {
	return rc.run(ctx, "register", id, key, func(p *model.Profile, c *model.Conference) (bool, error) {
		if err := p.Attend(c.Key); err != nil {
			return false, err
		}
		if err := c.ReserveSeat(); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Unregister releases the caller's seat on key. It returns false without
// changing anything when the caller was not registered.
func (rc *RegistrationCoordinator) Unregister(ctx context.Context, id model.Identity, key string) (bool, error) {
	return rc.run(ctx, "unregister", id, key, func(p *model.Profile, c *model.Conference) (bool, error) {
		if !p.Leave(c.Key) {
			return false, nil
		}
		if err := c.ReleaseSeat(); err != nil {
			return false, err
		}
		return true, nil
	})
}

// mutation applies one registration change to in-transaction copies and
// reports whether anything needs to be written.
type mutation func(p *model.Profile, c *model.Conference) (bool, error)

func (rc *RegistrationCoordinator) run(ctx context.Context, op string, id model.Identity, key string, mutate mutation) (bool, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "registration."+op, trace.WithAttributes(
		attribute.String("conference.key", key),
		attribute.String("user.id", id.UserID),
	))
	defer span.End()

	changed, err := rc.execute(ctx, id, key, mutate)

	outcome := registrationOutcome(changed, err)
	telemetry.RegistrationsTotal.WithLabelValues(op, outcome).Inc()
	span.SetAttributes(attribute.String("registration.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		level := slog.LevelInfo
		if outcome == "transient" || outcome == "error" {
			level = slog.LevelWarn
		}
		slog.Log(ctx, level, "registration rejected",
			"op", op, "conference_key", key, "user_id", id.UserID, "outcome", outcome, "error", err)
		return false, err
	}

	slog.Info("registration processed",
		"op", op, "conference_key", key, "user_id", id.UserID, "outcome", outcome)
	return changed, nil
}

func (rc *RegistrationCoordinator) execute(ctx context.Context, id model.Identity, key string, mutate mutation) (bool, error) {
	if key == "" {
		return false, model.NewValidationError("websafeConferenceKey", "is required")
	}
	if id.UserID == "" {
		return false, model.ErrUnauthenticated
	}

	// The profile row must exist before the transaction can read it.
	if _, err := rc.store.GetOrCreateProfile(ctx, model.NewProfile(id)); err != nil {
		return false, err
	}

	var changed bool
	err := RunInTransaction(ctx, rc.store, rc.policy, func(tx repository.Tx) error {
		changed = false

		conf, err := tx.GetConference(ctx, key)
		if err != nil {
			return err
		}
		prof, err := tx.GetProfile(ctx, id.UserID)
		if err != nil {
			return err
		}

		ok, err := mutate(prof, conf)
		if err != nil || !ok {
			return err
		}
		if err := conf.CheckLedger(); err != nil {
			return err
		}

		if err := tx.PutProfile(ctx, prof); err != nil {
			return err
		}
		if err := tx.PutConference(ctx, conf); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

func registrationOutcome(changed bool, err error) string {
	switch {
	case err == nil && changed:
		return "ok"
	case err == nil:
		return "not_registered"
	case errors.Is(err, model.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, model.ErrNoSeats):
		return "full"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
