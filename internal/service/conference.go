// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/conference-booking/internal/cache"
	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
	"github.com/Shivanand-hulikatti/conference-booking/internal/telemetry"
)

// ConferenceService orchestrates conference creation, edits and listings.
type ConferenceService struct {
	store  repository.Store
	names  *cache.DisplayNames
	policy RetryPolicy
	now    func() time.Time
}

// NewConferenceService constructs a ConferenceService with its dependencies.
func NewConferenceService(store repository.Store, names *cache.DisplayNames, policy RetryPolicy) *ConferenceService {
	return &ConferenceService{store: store, names: names, policy: policy, now: time.Now}
}

// Create validates form and stores a new conference owned by the caller.
// Missing city and topics take their defaults; seatsAvailable starts at
// maxAttendees.
func (s *ConferenceService) Create(ctx context.Context, id model.Identity, form model.ConferenceForm) (*model.Conference, error) {
	if form.Name == nil {
		return nil, model.NewValidationError("name", "conference 'name' field required")
	}

	conf := &model.Conference{
		Key:             uuid.NewString(),
		OrganizerUserID: id.UserID,
		CreatedAt:       s.now().UTC(),
	}
	if err := applyConferenceForm(&form, conf); err != nil {
		return nil, err
	}
	if conf.City == "" {
		conf.City = model.DefaultCity
	}
	if len(conf.Topics) == 0 {
		conf.Topics = append([]string(nil), model.DefaultTopics...)
	}
	if form.MaxAttendees != nil {
		if *form.MaxAttendees < 0 {
			return nil, model.NewValidationError("maxAttendees", "must not be negative")
		}
		conf.MaxAttendees = *form.MaxAttendees
	}
	conf.InitSeats()
	if err := conf.CheckLedger(); err != nil {
		return nil, err
	}

	organizer, err := s.store.GetOrCreateProfile(ctx, model.NewProfile(id))
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateConference(ctx, conf); err != nil {
		return nil, err
	}
	conf.OrganizerDisplayName = organizer.DisplayName

	slog.Info("conference created",
		"conference_key", conf.Key, "organizer", id.UserID, "max_attendees", conf.MaxAttendees)
	return conf, nil
}

// Update applies the fields present in form to the caller's conference.
// Only the organizer may edit; capacity fields never change here.
func (s *ConferenceService) Update(ctx context.Context, id model.Identity, key string, form model.ConferenceForm) (*model.Conference, error) {
	var updated *model.Conference
	err := RunInTransaction(ctx, s.store, s.policy, func(tx repository.Tx) error {
		conf, err := tx.GetConference(ctx, key)
		if err != nil {
			return err
		}
		if conf.OrganizerUserID != id.UserID {
			return model.ErrNotOrganizer
		}
		if err := applyConferenceForm(&form, conf); err != nil {
			return err
		}
		if err := tx.PutConference(ctx, conf); err != nil {
			return err
		}
		updated = conf
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("conference updated", "conference_key", key, "organizer", id.UserID)
	return s.enrichOne(ctx, updated)
}

// Get returns one conference with its organizer's display name.
func (s *ConferenceService) Get(ctx context.Context, key string) (*model.Conference, error) {
	if key == "" {
		return nil, model.NewValidationError("websafeConferenceKey", "is required")
	}
	conf, err := s.store.GetConference(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.enrichOne(ctx, conf)
}

// Query compiles filters and returns the matching conferences in plan order.
func (s *ConferenceService) Query(ctx context.Context, filters []model.FilterSpec) ([]*model.Conference, error) {
	plan, err := query.Compile(filters)
	if err != nil {
		telemetry.QueriesTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	confs, err := s.store.Query(ctx, plan)
	if err != nil {
		telemetry.QueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	telemetry.QueriesTotal.WithLabelValues("ok").Inc()
	return s.enrich(ctx, confs)
}

// Created returns the conferences organized by the caller, ordered by name.
func (s *ConferenceService) Created(ctx context.Context, id model.Identity) ([]*model.Conference, error) {
	confs, err := s.store.ListByOrganizer(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("list created conferences: %w", err)
	}
	return s.enrich(ctx, confs)
}

// Attending returns the conferences the caller is registered for.
func (s *ConferenceService) Attending(ctx context.Context, id model.Identity) ([]*model.Conference, error) {
	prof, err := s.store.GetOrCreateProfile(ctx, model.NewProfile(id))
	if err != nil {
		return nil, err
	}
	confs, err := s.store.GetConferences(ctx, prof.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("list attended conferences: %w", err)
	}
	return s.enrich(ctx, confs)
}

func (s *ConferenceService) enrichOne(ctx context.Context, conf *model.Conference) (*model.Conference, error) {
	out, err := s.enrich(ctx, []*model.Conference{conf})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// enrich fills OrganizerDisplayName from the display-name cache.
func (s *ConferenceService) enrich(ctx context.Context, confs []*model.Conference) ([]*model.Conference, error) {
	if len(confs) == 0 {
		return []*model.Conference{}, nil
	}
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		ids = append(ids, c.OrganizerUserID)
	}
	names, err := s.names.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup organizer names: %w", err)
	}
	for _, c := range confs {
		c.OrganizerDisplayName = names[c.OrganizerUserID]
	}
	return confs, nil
}
