package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
	"github.com/Shivanand-hulikatti/conference-booking/internal/query"
)

// dbtx is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const conferenceColumns = `key, organizer_user_id, name, description, city, topics,
	start_date, end_date, month, max_attendees, seats_available, version, created_at`

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_keys, version`

// PostgresStore persists conferences and profiles in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateConference inserts a new conference.
func (s *PostgresStore) CreateConference(ctx context.Context, c *model.Conference) error {
	c.Version = 1
	_, err := s.db.Exec(ctx,
		`INSERT INTO conferences (`+conferenceColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.Key, c.OrganizerUserID, c.Name, c.Description, c.City, nonNil(c.Topics),
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable, c.Version, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conference: %w", err)
	}
	return nil
}

// GetConference returns a single conference or model.ErrConferenceNotFound.
func (s *PostgresStore) GetConference(ctx context.Context, key string) (*model.Conference, error) {
	return getConference(ctx, s.db, key)
}

// GetConferences returns the conferences for keys in the order given.
func (s *PostgresStore) GetConferences(ctx context.Context, keys []string) ([]*model.Conference, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return listConferences(ctx, s.db,
		`SELECT `+conferenceColumns+` FROM conferences
		 WHERE key = ANY($1)
		 ORDER BY array_position($1::text[], key)`,
		keys,
	)
}

// ListByOrganizer returns the conferences created by userID ordered by name.
func (s *PostgresStore) ListByOrganizer(ctx context.Context, userID string) ([]*model.Conference, error) {
	return listConferences(ctx, s.db,
		`SELECT `+conferenceColumns+` FROM conferences
		 WHERE organizer_user_id = $1
		 ORDER BY name, key`,
		userID,
	)
}

// Query runs a compiled plan.
func (s *PostgresStore) Query(ctx context.Context, plan *query.Plan) ([]*model.Conference, error) {
	sql, args := buildQuery(plan)
	return listConferences(ctx, s.db, sql, args...)
}

var columns = map[query.Field]string{
	query.FieldCity:         "city",
	query.FieldTopics:       "topics",
	query.FieldMonth:        "month",
	query.FieldMaxAttendees: "max_attendees",
	query.FieldName:         "name",
}

// buildQuery lowers plan into parameterised SQL. Operators and columns come
// from fixed tables, values are always bound.
func buildQuery(plan *query.Plan) (string, []any) {
	var (
		where []string
		args  []any
	)
	for _, p := range plan.Predicates {
		args = append(args, p.Value)
		if p.Field == query.FieldTopics {
			where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(topics) AS t WHERE t %s $%d)", p.Op, len(args)))
			continue
		}
		where = append(where, fmt.Sprintf("%s %s $%d", columns[p.Field], p.Op, len(args)))
	}

	var order []string
	for _, f := range plan.OrderBy {
		if f == query.FieldTopics {
			order = append(order, "(SELECT min(t) FROM unnest(topics) AS t)")
			continue
		}
		order = append(order, columns[f])
	}
	order = append(order, "key")

	var b strings.Builder
	b.WriteString("SELECT " + conferenceColumns + " FROM conferences")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY " + strings.Join(order, ", "))
	return b.String(), args
}

// GetOrCreateProfile returns the profile for seed.UserID, inserting seed if
// none exists yet.
func (s *PostgresStore) GetOrCreateProfile(ctx context.Context, seed *model.Profile) (*model.Profile, error) {
	_, err := s.db.Exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, 1)
		 ON CONFLICT (user_id) DO NOTHING`,
		seed.UserID, seed.DisplayName, seed.MainEmail, string(seed.TeeShirtSize), nonNil(seed.ConferenceKeysToAttend),
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return getProfile(ctx, s.db, seed.UserID)
}

// DisplayNames maps each known user id to its profile display name.
func (s *PostgresStore) DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}
	rows, err := s.db.Query(ctx,
		`SELECT user_id, display_name FROM profiles WHERE user_id = ANY($1)`,
		userIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list display names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan display name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// RunInTx runs fn inside a REPEATABLE READ transaction. Writes compare the
// version column read earlier, so a concurrent commit on either row turns
// into ErrTxConflict instead of a lost update.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return txError("commit transaction", err)
	}
	return nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) GetConference(ctx context.Context, key string) (*model.Conference, error) {
	c, err := getConference(ctx, t.tx, key)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, txError("read conference", err)
	}
	return c, err
}

func (t *pgTx) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := getProfile(ctx, t.tx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, txError("read profile", err)
	}
	return p, err
}

func (t *pgTx) PutConference(ctx context.Context, c *model.Conference) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE conferences SET
			name = $3, description = $4, city = $5, topics = $6,
			start_date = $7, end_date = $8, month = $9,
			max_attendees = $10, seats_available = $11,
			version = version + 1
		 WHERE key = $1 AND version = $2`,
		c.Key, c.Version, c.Name, c.Description, c.City, nonNil(c.Topics),
		c.StartDate, c.EndDate, c.Month, c.MaxAttendees, c.SeatsAvailable,
	)
	if err != nil {
		return txError("update conference", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTxConflict
	}
	c.Version++
	return nil
}

func (t *pgTx) PutProfile(ctx context.Context, p *model.Profile) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE profiles SET
			display_name = $3, main_email = $4, tee_shirt_size = $5,
			conference_keys = $6, version = version + 1
		 WHERE user_id = $1 AND version = $2`,
		p.UserID, p.Version, p.DisplayName, p.MainEmail, string(p.TeeShirtSize), nonNil(p.ConferenceKeysToAttend),
	)
	if err != nil {
		return txError("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTxConflict
	}
	p.Version++
	return nil
}

// txError reports serialization failures and deadlocks as ErrTxConflict.
func txError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return fmt.Errorf("%s: %w", op, ErrTxConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func getConference(ctx context.Context, db dbtx, key string) (*model.Conference, error) {
	c, err := scanConference(db.QueryRow(ctx,
		`SELECT `+conferenceColumns+` FROM conferences WHERE key = $1`,
		key,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrConferenceNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return c, nil
}

func listConferences(ctx context.Context, db dbtx, sql string, args ...any) ([]*model.Conference, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	defer rows.Close()

	var confs []*model.Conference
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conference: %w", err)
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

func scanConference(row pgx.Row) (*model.Conference, error) {
	var c model.Conference
	err := row.Scan(
		&c.Key, &c.OrganizerUserID, &c.Name, &c.Description, &c.City, &c.Topics,
		&c.StartDate, &c.EndDate, &c.Month, &c.MaxAttendees, &c.SeatsAvailable, &c.Version, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func getProfile(ctx context.Context, db dbtx, userID string) (*model.Profile, error) {
	var (
		p    model.Profile
		size string
	)
	err := db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size, &p.ConferenceKeysToAttend, &p.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.TeeShirtSize = model.TeeShirtSize(size)
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	return &p, nil
}

// nonNil keeps pgx from encoding an empty slice as NULL in NOT NULL array columns.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
