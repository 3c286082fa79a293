package controller

import (
	"time"

	profile "tabangi/internal/pkg/profile/domain"
)

type profileResponse struct {
	ID                    string                      `json:"id"`
	FirstName             string                      `json:"firstName"`
	LastName              string                      `json:"lastName"`
	DisplayName           string                      `json:"displayName,omitempty"`
	PhotoURL              string                      `json:"photoURL,omitempty"`
	Role                  string                      `json:"role,omitempty"`
	VisibleToHouseholds   bool                        `json:"profileVisibleToHouseholds"`
	VisibleToHousekeepers bool                        `json:"profileVisibleToHousekeepers"`
	HousekeeperDetails    *profile.HousekeeperDetails `json:"housekeeperDetails,omitempty"`
	HouseholdDetails      *profile.HouseholdDetails   `json:"householdDetails,omitempty"`
	UpdatedAt             *time.Time                  `json:"updatedAt,omitempty"`
}

func toProfileResponse(p profile.Profile) profileResponse {
	resp := profileResponse{
		ID:                    p.ID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		DisplayName:           p.DisplayName,
		PhotoURL:              p.PhotoURL,
		Role:                  string(p.Role),
		VisibleToHouseholds:   p.VisibleToHouseholds,
		VisibleToHousekeepers: p.VisibleToHousekeepers,
		HousekeeperDetails:    p.Housekeeper,
		HouseholdDetails:      p.Household,
	}
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

func toProfileResponses(profiles []profile.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out
}
