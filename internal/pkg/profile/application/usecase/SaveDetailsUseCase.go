package usecase

import (
	"context"
	"errors"
	"fmt"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// SaveDetailsUseCase persists the role-specific form sections.
type SaveDetailsUseCase struct {
	Repo repository.ProfileRepository
}

func NewSaveDetailsUseCase(repo repository.ProfileRepository) *SaveDetailsUseCase {
	return &SaveDetailsUseCase{Repo: repo}
}

// Housekeeper replaces the housekeeper section of the user's profile.
func (uc *SaveDetailsUseCase) Housekeeper(ctx context.Context, userID string, d profile.HousekeeperDetails) error {
	return uc.wrap(uc.Repo.SaveHousekeeperDetails(ctx, userID, d))
}

// Household replaces the household section of the user's profile.
func (uc *SaveDetailsUseCase) Household(ctx context.Context, userID string, d profile.HouseholdDetails) error {
	return uc.wrap(uc.Repo.SaveHouseholdDetails(ctx, userID, d))
}

func (uc *SaveDetailsUseCase) wrap(err error) error {
	if err == nil || errors.Is(err, profile.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
