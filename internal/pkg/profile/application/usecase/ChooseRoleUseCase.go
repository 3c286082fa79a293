package usecase

import (
	"context"
	"errors"
	"fmt"

	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// ChooseRoleUseCase records the role picked on the continue screen.
type ChooseRoleUseCase struct {
	Repo repository.ProfileRepository
}

func NewChooseRoleUseCase(repo repository.ProfileRepository) *ChooseRoleUseCase {
	return &ChooseRoleUseCase{Repo: repo}
}

func (uc *ChooseRoleUseCase) Execute(ctx context.Context, userID, role string) (profile.Role, error) {
	parsed, err := profile.ParseRole(role)
	if err != nil {
		return "", err
	}
	err = uc.Repo.SetRole(ctx, userID, parsed)
	if errors.Is(err, profile.ErrNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return parsed, nil
}
