package usecase

import (
	"context"
	"errors"
	"fmt"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// GetProfileUseCase fetches a full profile, used by the visit-profile and
// own-profile screens.
type GetProfileUseCase struct {
	Repo repository.ProfileRepository
}

func NewGetProfileUseCase(repo repository.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{Repo: repo}
}

func (uc *GetProfileUseCase) Execute(ctx context.Context, userID string) (*profile.Profile, error) {
	if userID == "" {
		return nil, profile.ErrNotFound
	}
	p, err := uc.Repo.Get(ctx, userID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return p, nil
}
