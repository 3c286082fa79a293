package profile

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("profile: not found")
	ErrInvalidRole = errors.New("profile: invalid role")
)

// Role is chosen once on the continue screen. A user may act on both sides of
// the marketplace at once.
type Role string

const (
	RoleHousekeeper Role = "housekeeper"
	RoleHousehold   Role = "household"
	RoleBoth        Role = "housekeeper and household"
)

// ParseRole validates a role string coming from the client.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleHousekeeper, RoleHousehold, RoleBoth:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) IsHousekeeper() bool { return r == RoleHousekeeper || r == RoleBoth }
func (r Role) IsHousehold() bool   { return r == RoleHousehold || r == RoleBoth }

// HousekeeperDetails is the role-specific section filled in by the
// housekeeper form.
type HousekeeperDetails struct {
	Rate            string    `json:"rate"`
	ServicesOffered []string  `json:"servicesOffered"`
	Image           string    `json:"image"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HouseholdDetails is the role-specific section filled in by the household
// form.
type HouseholdDetails struct {
	Address        string    `json:"address"`
	ServicesNeeded []string  `json:"servicesNeeded"`
	OfferedRate    string    `json:"offeredRate"`
	Image          string    `json:"image"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Profile is the users/{id} document. The visibility flags gate whether the
// profile shows up on the opposite side's browse screen.
type Profile struct {
	ID                    string
	FirstName             string
	LastName              string
	DisplayName           string
	PhotoURL              string
	Role                  Role
	VisibleToHouseholds   bool
	VisibleToHousekeepers bool
	Housekeeper           *HousekeeperDetails
	Household             *HouseholdDetails
	UpdatedAt             time.Time
}

// Summary is the read-only projection other subsystems decorate rows with.
type Summary struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Summary projects the fields needed to decorate a conversation row.
func (p Profile) Summary() Summary {
	return Summary{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
	}
}

// Name resolves the display string: an explicit display name wins, otherwise
// "firstName lastName".
func (s Summary) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
