package usecase

import (
	"context"
	"errors"
	"fmt"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// SetVisibilityUseCase flips a browse-screen visibility toggle.
type SetVisibilityUseCase struct {
	Repo repository.ProfileRepository
}

func NewSetVisibilityUseCase(repo repository.ProfileRepository) *SetVisibilityUseCase {
	return &SetVisibilityUseCase{Repo: repo}
}

func (uc *SetVisibilityUseCase) Execute(ctx context.Context, userID string, audience repository.Audience, visible bool) error {
	if audience != repository.AudienceHouseholds && audience != repository.AudienceHousekeepers {
		return fmt.Errorf("profile: unknown audience %q", audience)
	}
	err := uc.Repo.SetVisibility(ctx, userID, audience, visible)
	if err == nil || errors.Is(err, profile.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
