package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/conference-booking/internal/cache"
	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/repository"
)

// ProfileService reads and edits the caller's profile.
type ProfileService struct {
	store  repository.Store
	names  *cache.DisplayNames
	policy RetryPolicy
}

// NewProfileService constructs a ProfileService.
func NewProfileService(store repository.Store, names *cache.DisplayNames, policy RetryPolicy) *ProfileService {
	return &ProfileService{store: store, names: names, policy: policy}
}

// Get returns the caller's profile, creating it on first access.
func (s *ProfileService) Get(ctx context.Context, id model.Identity) (*model.Profile, error) {
	return s.store.GetOrCreateProfile(ctx, model.NewProfile(id))
}

// Save updates the non-empty fields of form on the caller's profile.
func (s *ProfileService) Save(ctx context.Context, id model.Identity, form model.ProfileForm) (*model.Profile, error) {
	displayName := strings.TrimSpace(form.DisplayName)
	if form.TeeShirtSize != "" && !form.TeeShirtSize.Valid() {
		return nil, model.NewValidationError("teeShirtSize", "unknown size %q", form.TeeShirtSize)
	}

	if _, err := s.store.GetOrCreateProfile(ctx, model.NewProfile(id)); err != nil {
		return nil, err
	}

	var saved *model.Profile
	err := RunInTransaction(ctx, s.store, s.policy, func(tx repository.Tx) error {
		prof, err := tx.GetProfile(ctx, id.UserID)
		if err != nil {
			return err
		}
		if displayName != "" {
			prof.DisplayName = displayName
		}
		if form.TeeShirtSize != "" {
			prof.TeeShirtSize = form.TeeShirtSize
		}
		if err := tx.PutProfile(ctx, prof); err != nil {
			return err
		}
		saved = prof
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.names.Forget(id.UserID)
	slog.Info("profile saved", "user_id", id.UserID)
	return saved, nil
}
