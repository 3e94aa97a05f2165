package service

import (
	"context"
	"time"

	"github.com/Shivanand-hulikatti/conference-booking/internal/cache"
	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
)

var testPolicy = RetryPolicy{MaxAttempts: 50}

type services struct {
	store         *repository.MemoryStore
	conferences   *ConferenceService
	registrations *RegistrationCoordinator
	profiles      *ProfileService
}

func newServices() *services {
	store := repository.NewMemoryStore()
	names := cache.NewDisplayNames(store.DisplayNames, time.Minute, time.Minute)
	return &services{
		store:         store,
		conferences:   NewConferenceService(store, names, testPolicy),
		registrations: NewRegistrationCoordinator(store, testPolicy),
		profiles:      NewProfileService(store, names, testPolicy),
	}
}

func user(id string) model.Identity {
	return model.Identity{UserID: id, Email: id + "@example.com", Nickname: id}
}

func ptr[T any](v T) *T { return &v }

func (s *services) createConference(ctx context.Context, owner model.Identity, name string, maxAttendees int) *model.Conference {
	c, err := s.conferences.Create(ctx, owner, model.ConferenceForm{Name: ptr(name), MaxAttendees: ptr(maxAttendees)})
	if err != nil {
		panic(err)
	}
	return c
}

// contendedStore loses every transaction race.
type contendedStore struct {
	*repository.MemoryStore
	attempts int
}

func (s *contendedStore) RunInTx(context.Context, func(repository.Tx) error) error {
	s.attempts++
	return repository.ErrTxConflict
}
