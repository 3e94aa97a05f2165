// Package repository implements durable storage for conferences and profiles.
//
// Two backends satisfy Store: PostgresStore (pgx, no ORM) and MemoryStore.
// Both give single-entity writes plus RunInTx, one attempt of an optimistic
// transaction spanning a profile and a conference.
package repository

import (
	"context"
	"errors"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
)

// ErrTxConflict is returned by RunInTx when the transaction observed data
// that another transaction changed before it could commit. Nothing was
// written; the caller may run the closure again.
var ErrTxConflict = errors.New("transaction conflict")

// Tx is the view of the store inside RunInTx. Reads see a consistent
// snapshot; writes become visible only when the closure returns nil and the
// commit succeeds.
type Tx interface {
	GetConference(ctx context.Context, key string) (*model.Conference, error)
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	PutConference(ctx context.Context, c *model.Conference) error
	PutProfile(ctx context.Context, p *model.Profile) error
}

// TxRunner runs fn as one transaction attempt.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error
}

// Store is the full storage contract used by the service layer.
type Store interface {
	TxRunner

	CreateConference(ctx context.Context, c *model.Conference) error
	GetConference(ctx context.Context, key string) (*model.Conference, error)
	GetConferences(ctx context.Context, keys []string) ([]*model.Conference, error)
	ListByOrganizer(ctx context.Context, userID string) ([]*model.Conference, error)
	Query(ctx context.Context, plan *query.Plan) ([]*model.Conference, error)

	GetOrCreateProfile(ctx context.Context, seed *model.Profile) (*model.Profile, error)
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}
