package repository

import (
	"context"

	profile "tabangi/internal/pkg/profile/domain"
)

// Audience selects which browse screen a visibility toggle applies to.
type Audience string

const (
	AudienceHouseholds   Audience = "households"
	AudienceHousekeepers Audience = "housekeepers"
)

// ProfileRepository defines persistence operations for the users collection.
// Role-specific detail sections are written as whole nested objects; every
// other mutation is a partial-field update.
type ProfileRepository interface {
	// Get returns profile.ErrNotFound when the user document is absent.
	Get(ctx context.Context, userID string) (*profile.Profile, error)

	// Summary returns the row-decoration projection for userID.
	Summary(ctx context.Context, userID string) (profile.Summary, error)

	// SetRole records the role chosen on the continue screen.
	SetRole(ctx context.Context, userID string, role profile.Role) error

	// SaveHousekeeperDetails replaces the housekeeper section.
	SaveHousekeeperDetails(ctx context.Context, userID string, d profile.HousekeeperDetails) error

	// SaveHouseholdDetails replaces the household section.
	SaveHouseholdDetails(ctx context.Context, userID string, d profile.HouseholdDetails) error

	// SetVisibility flips one browse-screen visibility flag.
	SetVisibility(ctx context.Context, userID string, audience Audience, visible bool) error

	// SetPhotoURL stores the hosted photo URL.
	SetPhotoURL(ctx context.Context, userID string, url string) error

	// ListVisible returns profiles browsable by the given audience:
	// the matching visibility flag set and a role that serves that audience.
	ListVisible(ctx context.Context, audience Audience) ([]profile.Profile, error)
}
