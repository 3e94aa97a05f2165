package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

func TestProfile_CreatedLazily(t *testing.T) {
	s := newServices()
	prof, err := s.profiles.Get(context.Background(), model.Identity{UserID: "u1", Email: "ann@example.com", Nickname: "ann"})
	require.NoError(t, err)

	assert.Equal(t, "u1", prof.UserID)
	assert.Equal(t, "ann", prof.DisplayName)
	assert.Equal(t, "ann@example.com", prof.MainEmail)
	assert.Equal(t, model.SizeNotSpecified, prof.TeeShirtSize)
	assert.Empty(t, prof.ConferenceKeysToAttend)
}

func TestProfile_Save(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	conf := s.createConference(ctx, user("org"), "Conf", 5)
	got, err := s.conferences.Get(ctx, conf.Key)
	require.NoError(t, err)
	require.Equal(t, "org", got.OrganizerDisplayName)

	prof, err := s.profiles.Save(ctx, user("org"), model.ProfileForm{DisplayName: " Organizer ", TeeShirtSize: model.SizeLW})
	require.NoError(t, err)
	assert.Equal(t, "Organizer", prof.DisplayName)
	assert.Equal(t, model.SizeLW, prof.TeeShirtSize)

	prof, err = s.profiles.Save(ctx, user("org"), model.ProfileForm{TeeShirtSize: model.SizeMM})
	require.NoError(t, err)
	assert.Equal(t, "Organizer", prof.DisplayName, "empty fields are left alone")
	assert.Equal(t, model.SizeMM, prof.TeeShirtSize)

	got, err = s.conferences.Get(ctx, conf.Key)
	require.NoError(t, err)
	assert.Equal(t, "Organizer", got.OrganizerDisplayName, "renamed organizer is not served from a stale cache")
}

func TestProfile_SaveRejectsUnknownSize(t *testing.T) {
	s := newServices()
	_, err := s.profiles.Save(context.Background(), user("u1"), model.ProfileForm{TeeShirtSize: "HUGE"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestProfile_SaveKeepsAttendance(t *testing.T) {
	s := newServices()
	ctx := context.Background()
	conf := s.createConference(ctx, user("org"), "Conf", 5)
	_, err := s.registrations.Register(ctx, user("u1"), conf.Key)
	require.NoError(t, err)

	prof, err := s.profiles.Save(ctx, user("u1"), model.ProfileForm{DisplayName: "New"})
	require.NoError(t, err)
	assert.Equal(t, []string{conf.Key}, prof.ConferenceKeysToAttend)
}
