package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// PgProfileRepository is the Postgres rendition of the users collection,
// with the role-specific detail sections kept as jsonb documents.
type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

var _ repository.ProfileRepository = (*PgProfileRepository)(nil)

const profileSchema = `
CREATE SCHEMA IF NOT EXISTS app;

CREATE TABLE IF NOT EXISTS app.user_profile (
	id                      text PRIMARY KEY,
	first_name              text NOT NULL DEFAULT '',
	last_name               text NOT NULL DEFAULT '',
	display_name            text NOT NULL DEFAULT '',
	photo_url               text NOT NULL DEFAULT '',
	role                    text NOT NULL DEFAULT '',
	visible_to_households   boolean NOT NULL DEFAULT false,
	visible_to_housekeepers boolean NOT NULL DEFAULT false,
	housekeeper_details     jsonb,
	household_details       jsonb,
	updated_at              timestamptz NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the profile schema and table if absent.
func (r *PgProfileRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, profileSchema); err != nil {
		return fmt.Errorf("postgres: ensure profile schema: %w", err)
	}
	return nil
}

func (r *PgProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, display_name, photo_url, role,
		       visible_to_households, visible_to_housekeepers,
		       housekeeper_details, household_details, updated_at
		FROM app.user_profile
		WHERE id = $1
	`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgProfileRepository) Summary(ctx context.Context, userID string) (profile.Summary, error) {
	var s profile.Summary
	err := r.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, display_name, photo_url
		FROM app.user_profile
		WHERE id = $1
	`, userID).Scan(&s.ID, &s.FirstName, &s.LastName, &s.DisplayName, &s.PhotoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.Summary{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Summary{}, fmt.Errorf("postgres: get summary: %w", err)
	}
	return s, nil
}

func (r *PgProfileRepository) SetRole(ctx context.Context, userID string, role profile.Role) error {
	return r.exec(ctx, `
		UPDATE app.user_profile SET role = $2, updated_at = now() WHERE id = $1
	`, userID, string(role))
}

func (r *PgProfileRepository) SaveHousekeeperDetails(ctx context.Context, userID string, d profile.HousekeeperDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("postgres: encode housekeeper details: %w", err)
	}
	return r.exec(ctx, `
		UPDATE app.user_profile SET housekeeper_details = $2, updated_at = now() WHERE id = $1
	`, userID, b)
}

func (r *PgProfileRepository) SaveHouseholdDetails(ctx context.Context, userID string, d profile.HouseholdDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("postgres: encode household details: %w", err)
	}
	return r.exec(ctx, `
		UPDATE app.user_profile SET household_details = $2, updated_at = now() WHERE id = $1
	`, userID, b)
}

func (r *PgProfileRepository) SetVisibility(ctx context.Context, userID string, audience repository.Audience, visible bool) error {
	column := "visible_to_households"
	if audience == repository.AudienceHousekeepers {
		column = "visible_to_housekeepers"
	}
	return r.exec(ctx, `
		UPDATE app.user_profile SET `+column+` = $2 WHERE id = $1
	`, userID, visible)
}

func (r *PgProfileRepository) SetPhotoURL(ctx context.Context, userID string, url string) error {
	return r.exec(ctx, `
		UPDATE app.user_profile SET photo_url = $2, updated_at = now() WHERE id = $1
	`, userID, url)
}

func (r *PgProfileRepository) ListVisible(ctx context.Context, audience repository.Audience) ([]profile.Profile, error) {
	column := "visible_to_households"
	roles := []string{string(profile.RoleHousekeeper), string(profile.RoleBoth)}
	if audience == repository.AudienceHousekeepers {
		column = "visible_to_housekeepers"
		roles = []string{string(profile.RoleHousehold), string(profile.RoleBoth)}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, first_name, last_name, display_name, photo_url, role,
		       visible_to_households, visible_to_housekeepers,
		       housekeeper_details, household_details, updated_at
		FROM app.user_profile
		WHERE `+column+` = true AND role = ANY($1)
		ORDER BY updated_at DESC
	`, roles)
	if err != nil {
		return nil, fmt.Errorf("postgres: query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("postgres: iterate profiles: %w", rows.Err())
	}
	return profiles, nil
}

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var (
		p           profile.Profile
		role        string
		housekeeper []byte
		household   []byte
	)
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DisplayName, &p.PhotoURL, &role,
		&p.VisibleToHouseholds, &p.VisibleToHousekeepers, &housekeeper, &household, &p.UpdatedAt)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("postgres: scan profile: %w", err)
	}
	p.Role = profile.Role(role)
	if len(housekeeper) > 0 {
		var d profile.HousekeeperDetails
		if err := json.Unmarshal(housekeeper, &d); err != nil {
			return profile.Profile{}, fmt.Errorf("postgres: decode housekeeper details: %w", err)
		}
		p.Housekeeper = &d
	}
	if len(household) > 0 {
		var d profile.HouseholdDetails
		if err := json.Unmarshal(household, &d); err != nil {
			return profile.Profile{}, fmt.Errorf("postgres: decode household details: %w", err)
		}
		p.Household = &d
	}
	return p, nil
}

func (r *PgProfileRepository) exec(ctx context.Context, sql string, args ...interface{}) error {
	ct, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("postgres: update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return profile.ErrNotFound
	}
	return nil
}
