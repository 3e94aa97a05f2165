package repository

import (
	"context"
	"sync"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
)

// MemoryStore keeps entities in process memory. Transactions are optimistic:
// reads record the version they saw and commit fails with ErrTxConflict if
// any of those versions moved.
type MemoryStore struct {
	mu          sync.RWMutex
	conferences map[string]*model.Conference
	profiles    map[string]*model.Profile
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conferences: make(map[string]*model.Conference),
		profiles:    make(map[string]*model.Profile),
	}
}

// CreateConference stores a new conference.
func (s *MemoryStore) CreateConference(ctx context.Context, c *model.Conference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Version = 1
	s.conferences[c.Key] = c.Clone()
	return nil
}

// GetConference returns a copy of one conference or model.ErrConferenceNotFound.
func (s *MemoryStore) GetConference(ctx context.Context, key string) (*model.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conferences[key]
	if !ok {
		return nil, model.ErrConferenceNotFound
	}
	return c.Clone(), nil
}

// GetConferences returns the conferences for keys, in key order, skipping
// keys that do not resolve.
func (s *MemoryStore) GetConferences(ctx context.Context, keys []string) ([]*model.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Conference, 0, len(keys))
	for _, k := range keys {
		if c, ok := s.conferences[k]; ok {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// ListByOrganizer returns the conferences created by userID ordered by name.
func (s *MemoryStore) ListByOrganizer(ctx context.Context, userID string) ([]*model.Conference, error) {
	s.mu.RLock()
	var out []*model.Conference
	for _, c := range s.conferences {
		if c.OrganizerUserID == userID {
			out = append(out, c.Clone())
		}
	}
	s.mu.RUnlock()

	byName := &query.Plan{OrderBy: []query.Field{query.FieldName}}
	byName.Sort(out)
	return out, nil
}

// Query executes plan against every stored conference.
func (s *MemoryStore) Query(ctx context.Context, plan *query.Plan) ([]*model.Conference, error) {
	s.mu.RLock()
	all := make([]*model.Conference, 0, len(s.conferences))
	for _, c := range s.conferences {
		all = append(all, c.Clone())
	}
	s.mu.RUnlock()
	return plan.Execute(all), nil
}

// GetOrCreateProfile returns the profile for seed.UserID, storing seed first
// if none exists.
func (s *MemoryStore) GetOrCreateProfile(ctx context.Context, seed *model.Profile) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[seed.UserID]; ok {
		return p.Clone(), nil
	}
	p := seed.Clone()
	p.Version = 1
	s.profiles[p.UserID] = p
	return p.Clone(), nil
}

// DisplayNames maps each known user id to its profile display name.
func (s *MemoryStore) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if p, ok := s.profiles[id]; ok {
			names[id] = p.DisplayName
		}
	}
	return names, nil
}

// RunInTx runs fn against a snapshot and commits its writes atomically.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memoryTx{
		store:         s,
		confVersions:  make(map[string]int64),
		profVersions:  make(map[string]int64),
		confWrites:    make(map[string]*model.Conference),
		profileWrites: make(map[string]*model.Profile),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

type memoryTx struct {
	store         *MemoryStore
	confVersions  map[string]int64
	profVersions  map[string]int64
	confWrites    map[string]*model.Conference
	profileWrites map[string]*model.Profile
}

func (tx *memoryTx) GetConference(ctx context.Context, key string) (*model.Conference, error) {
	if c, ok := tx.confWrites[key]; ok {
		return c.Clone(), nil
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	c, ok := tx.store.conferences[key]
	if !ok {
		return nil, model.ErrConferenceNotFound
	}
	if _, seen := tx.confVersions[key]; !seen {
		tx.confVersions[key] = c.Version
	}
	return c.Clone(), nil
}

func (tx *memoryTx) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	if p, ok := tx.profileWrites[userID]; ok {
		return p.Clone(), nil
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	p, ok := tx.store.profiles[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	if _, seen := tx.profVersions[userID]; !seen {
		tx.profVersions[userID] = p.Version
	}
	return p.Clone(), nil
}

func (tx *memoryTx) PutConference(ctx context.Context, c *model.Conference) error {
	if _, seen := tx.confVersions[c.Key]; !seen {
		tx.confVersions[c.Key] = c.Version
	}
	tx.confWrites[c.Key] = c.Clone()
	return nil
}

func (tx *memoryTx) PutProfile(ctx context.Context, p *model.Profile) error {
	if _, seen := tx.profVersions[p.UserID]; !seen {
		tx.profVersions[p.UserID] = p.Version
	}
	tx.profileWrites[p.UserID] = p.Clone()
	return nil
}

func (tx *memoryTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, v := range tx.confVersions {
		cur, ok := s.conferences[key]
		if !ok || cur.Version != v {
			return ErrTxConflict
		}
	}
	for id, v := range tx.profVersions {
		cur, ok := s.profiles[id]
		if !ok || cur.Version != v {
			return ErrTxConflict
		}
	}

	for key, c := range tx.confWrites {
		c.Version = s.conferences[key].Version + 1
		s.conferences[key] = c
	}
	for id, p := range tx.profileWrites {
		p.Version = s.profiles[id].Version + 1
		s.profiles[id] = p
	}
	return nil
}
