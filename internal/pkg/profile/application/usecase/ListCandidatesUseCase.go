package usecase

import (
	"context"
	"fmt"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// ListCandidatesUseCase serves the browse screens: housekeepers visible to
// households, or households visible to housekeepers.
type ListCandidatesUseCase struct {
	Repo repository.ProfileRepository
}

func NewListCandidatesUseCase(repo repository.ProfileRepository) *ListCandidatesUseCase {
	return &ListCandidatesUseCase{Repo: repo}
}

func (uc *ListCandidatesUseCase) Execute(ctx context.Context, audience repository.Audience) ([]profile.Profile, error) {
	profiles, err := uc.Repo.ListVisible(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return profiles, nil
}
