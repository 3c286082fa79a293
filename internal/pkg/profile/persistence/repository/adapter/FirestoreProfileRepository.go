package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

const usersCollection = "users"

type housekeeperDetailsDoc struct {
	Rate            string    `firestore:"rate"`
	ServicesOffered []string  `firestore:"servicesOffered"`
	Image           string    `firestore:"image"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

type householdDetailsDoc struct {
	Address        string    `firestore:"address"`
	ServicesNeeded []string  `firestore:"servicesNeeded"`
	OfferedRate    string    `firestore:"offeredRate"`
	Image          string    `firestore:"image"`
	UpdatedAt      time.Time `firestore:"updatedAt"`
}

// profileDoc is the wire shape of users/{id}.
type profileDoc struct {
	FirstName             string                 `firestore:"firstName"`
	LastName              string                 `firestore:"lastName"`
	DisplayName           string                 `firestore:"displayName"`
	PhotoURL              string                 `firestore:"photoURL"`
	Role                  string                 `firestore:"role"`
	VisibleToHouseholds   bool                   `firestore:"profileVisibleToHouseholds"`
	VisibleToHousekeepers bool                   `firestore:"profileVisibleToHousekeepers"`
	Housekeeper           *housekeeperDetailsDoc `firestore:"housekeeperDetails"`
	Household             *householdDetailsDoc   `firestore:"householdDetails"`
	UpdatedAt             time.Time              `firestore:"updatedAt"`
}

// FirestoreProfileRepository persists user profiles in the users collection.
type FirestoreProfileRepository struct {
	client *firestore.Client
}

func NewFirestoreProfileRepository(client *firestore.Client) *FirestoreProfileRepository {
	return &FirestoreProfileRepository{client: client}
}

var _ repository.ProfileRepository = (*FirestoreProfileRepository)(nil)

func (r *FirestoreProfileRepository) user(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *FirestoreProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	snap, err := r.user(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get profile: %w", err)
	}
	p, err := decodeProfile(snap)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FirestoreProfileRepository) Summary(ctx context.Context, userID string) (profile.Summary, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return profile.Summary{}, err
	}
	return p.Summary(), nil
}

func (r *FirestoreProfileRepository) SetRole(ctx context.Context, userID string, role profile.Role) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "role", Value: string(role)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (r *FirestoreProfileRepository) SaveHousekeeperDetails(ctx context.Context, userID string, d profile.HousekeeperDetails) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "housekeeperDetails", Value: map[string]interface{}{
			"rate":            d.Rate,
			"servicesOffered": d.ServicesOffered,
			"image":           d.Image,
			"updatedAt":       firestore.ServerTimestamp,
		}},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (r *FirestoreProfileRepository) SaveHouseholdDetails(ctx context.Context, userID string, d profile.HouseholdDetails) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "householdDetails", Value: map[string]interface{}{
			"address":        d.Address,
			"servicesNeeded": d.ServicesNeeded,
			"offeredRate":    d.OfferedRate,
			"image":          d.Image,
			"updatedAt":      firestore.ServerTimestamp,
		}},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (r *FirestoreProfileRepository) SetVisibility(ctx context.Context, userID string, audience repository.Audience, visible bool) error {
	field := "profileVisibleToHouseholds"
	if audience == repository.AudienceHousekeepers {
		field = "profileVisibleToHousekeepers"
	}
	return r.update(ctx, userID, []firestore.Update{
		{Path: field, Value: visible},
	})
}

func (r *FirestoreProfileRepository) SetPhotoURL(ctx context.Context, userID string, url string) error {
	return r.update(ctx, userID, []firestore.Update{
		{Path: "photoURL", Value: url},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
}

func (r *FirestoreProfileRepository) ListVisible(ctx context.Context, audience repository.Audience) ([]profile.Profile, error) {
	field, roles := visibilityQuery(audience)
	it := r.client.Collection(usersCollection).
		Where(field, "==", true).
		Where("role", "in", roles).
		Documents(ctx)
	defer it.Stop()

	var profiles []profile.Profile
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return profiles, nil
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: iterate profiles: %w", err)
		}
		p, err := decodeProfile(doc)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
}

// visibilityQuery maps an audience to the flag and role set the browse
// screens filter on.
func visibilityQuery(audience repository.Audience) (string, []string) {
	if audience == repository.AudienceHousekeepers {
		return "profileVisibleToHousekeepers", []string{string(profile.RoleHousehold), string(profile.RoleBoth)}
	}
	return "profileVisibleToHouseholds", []string{string(profile.RoleHousekeeper), string(profile.RoleBoth)}
}

func (r *FirestoreProfileRepository) update(ctx context.Context, userID string, updates []firestore.Update) error {
	_, err := r.user(userID).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return profile.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore: update profile: %w", err)
	}
	return nil
}

func decodeProfile(doc *firestore.DocumentSnapshot) (profile.Profile, error) {
	var d profileDoc
	if err := doc.DataTo(&d); err != nil {
		return profile.Profile{}, fmt.Errorf("firestore: decode profile %s: %w", doc.Ref.ID, err)
	}
	p := profile.Profile{
		ID:                    doc.Ref.ID,
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		DisplayName:           d.DisplayName,
		PhotoURL:              d.PhotoURL,
		Role:                  profile.Role(d.Role),
		VisibleToHouseholds:   d.VisibleToHouseholds,
		VisibleToHousekeepers: d.VisibleToHousekeepers,
		UpdatedAt:             d.UpdatedAt,
	}
	if d.Housekeeper != nil {
		p.Housekeeper = &profile.HousekeeperDetails{
			Rate:            d.Housekeeper.Rate,
			ServicesOffered: d.Housekeeper.ServicesOffered,
			Image:           d.Housekeeper.Image,
			UpdatedAt:       d.Housekeeper.UpdatedAt,
		}
	}
	if d.Household != nil {
		p.Household = &profile.HouseholdDetails{
			Address:        d.Household.Address,
			ServicesNeeded: d.Household.ServicesNeeded,
			OfferedRate:    d.Household.OfferedRate,
			Image:          d.Household.Image,
			UpdatedAt:      d.Household.UpdatedAt,
		}
	}
	return p, nil
}
