// Package model defines the core domain types for the conference booking system.
package model

import (
	"slices"
	"time"
)

// Defaults applied to a new conference when the organizer leaves the field empty.
const (
	DefaultCity = "Kolkata"
)

// DefaultTopics is applied when a conference is created without topics.
var DefaultTopics = []string{"New Conference", "Programming"}

// Identity is the authenticated caller of an operation. It is resolved once
// per request by the transport layer and passed explicitly.
type Identity struct {
	UserID   string
	Email    string
	Nickname string
}

// Conference is a capacity-bearing resource created by an organizer.
type Conference struct {
	Key                  string     `json:"websafeKey"`
	OrganizerUserID      string     `json:"organizerUserId"`
	OrganizerDisplayName string     `json:"organizerDisplayName,omitempty"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	City                 string     `json:"city"`
	Topics               []string   `json:"topics"`
	StartDate            *time.Time `json:"startDate,omitempty"`
	EndDate              *time.Time `json:"endDate,omitempty"`
	Month                int        `json:"month"`
	MaxAttendees         int        `json:"maxAttendees"`
	SeatsAvailable       int        `json:"seatsAvailable"`
	CreatedAt            time.Time  `json:"createdAt"`

	// Version is bumped on every committed write and drives optimistic
	// concurrency in the stores.
	Version int64 `json:"-"`
}

// Clone returns a deep copy of c.
func (c *Conference) Clone() *Conference {
	cp := *c
	cp.Topics = slices.Clone(c.Topics)
	if c.StartDate != nil {
		d := *c.StartDate
		cp.StartDate = &d
	}
	if c.EndDate != nil {
		d := *c.EndDate
		cp.EndDate = &d
	}
	return &cp
}

// TeeShirtSize is the size preference stored on a profile.
type TeeShirtSize string

const (
	SizeNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	SizeXSM          TeeShirtSize = "XS_M"
	SizeXSW          TeeShirtSize = "XS_W"
	SizeSM           TeeShirtSize = "S_M"
	SizeSW           TeeShirtSize = "S_W"
	SizeMM           TeeShirtSize = "M_M"
	SizeMW           TeeShirtSize = "M_W"
	SizeLM           TeeShirtSize = "L_M"
	SizeLW           TeeShirtSize = "L_W"
	SizeXLM          TeeShirtSize = "XL_M"
	SizeXLW          TeeShirtSize = "XL_W"
	SizeXXLM         TeeShirtSize = "XXL_M"
	SizeXXLW         TeeShirtSize = "XXL_W"
	SizeXXXLM        TeeShirtSize = "XXXL_M"
	SizeXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = []TeeShirtSize{
	SizeNotSpecified, SizeXSM, SizeXSW, SizeSM, SizeSW, SizeMM, SizeMW, SizeLM,
	SizeLW, SizeXLM, SizeXLW, SizeXXLM, SizeXXLW, SizeXXXLM, SizeXXXLW,
}

// Valid reports whether s is one of the enumerated sizes.
func (s TeeShirtSize) Valid() bool {
	return slices.Contains(teeShirtSizes, s)
}

// Profile is a user's registration record.
type Profile struct {
	UserID                 string       `json:"userId"`
	DisplayName            string       `json:"displayName"`
	MainEmail              string       `json:"mainEmail"`
	TeeShirtSize           TeeShirtSize `json:"teeShirtSize"`
	ConferenceKeysToAttend []string     `json:"conferenceKeysToAttend"`

	Version int64 `json:"-"`
}

// NewProfile builds the profile created lazily on a user's first access.
func NewProfile(id Identity) *Profile {
	return &Profile{
		UserID:                 id.UserID,
		DisplayName:            id.Nickname,
		MainEmail:              id.Email,
		TeeShirtSize:           SizeNotSpecified,
		ConferenceKeysToAttend: []string{},
	}
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.ConferenceKeysToAttend = slices.Clone(p.ConferenceKeysToAttend)
	if cp.ConferenceKeysToAttend == nil {
		cp.ConferenceKeysToAttend = []string{}
	}
	return &cp
}

// IsAttending reports whether key is in the attendance set.
func (p *Profile) IsAttending(key string) bool {
	return slices.Contains(p.ConferenceKeysToAttend, key)
}

// Attend adds key to the attendance set. A key already present is rejected
// with ErrAlreadyRegistered.
func (p *Profile) Attend(key string) error {
	if p.IsAttending(key) {
		return ErrAlreadyRegistered
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, key)
	return nil
}

// Leave removes key from the attendance set and reports whether it was there.
func (p *Profile) Leave(key string) bool {
	i := slices.Index(p.ConferenceKeysToAttend, key)
	if i < 0 {
		return false
	}
	p.ConferenceKeysToAttend = slices.Delete(p.ConferenceKeysToAttend, i, i+1)
	return true
}

// ConferenceForm is the payload for creating or editing a conference.
// Nil fields are left untouched on update.
type ConferenceForm struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	City         *string  `json:"city,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	StartDate    *string  `json:"startDate,omitempty"`
	EndDate      *string  `json:"endDate,omitempty"`
	MaxAttendees *int     `json:"maxAttendees,omitempty"`
}

// ProfileForm is the payload for editing a profile.
type ProfileForm struct {
	DisplayName  string       `json:"displayName,omitempty"`
	TeeShirtSize TeeShirtSize `json:"teeShirtSize,omitempty"`
}

// FilterSpec is one raw (field, operator, value) triple of a conference query.
type FilterSpec struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// QueryRequest is the payload for querying conferences.
type QueryRequest struct {
	Filters []FilterSpec `json:"filters"`
}

// BooleanResult wraps the outcome of a register/unregister call.
type BooleanResult struct {
	Data bool `json:"data"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
