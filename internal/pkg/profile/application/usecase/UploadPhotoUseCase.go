package usecase

import (
	"context"
	"errors"
	"fmt"

	"tabangi/internal/infrastructure/media"
	profile "tabangi/internal/pkg/profile/domain"
	repository "tabangi/internal/pkg/profile/persistence/repository/port"
)

// UploadPhotoUseCase sends the photo bytes to the image host and stores the
// returned URL on the profile. The upload result is discarded if the profile
// write fails; the caller resubmits manually.
type UploadPhotoUseCase struct {
	Repo      repository.ProfileRepository
	Uploader  *media.Uploader
	Summaries *SummaryCache
}

func NewUploadPhotoUseCase(repo repository.ProfileRepository, uploader *media.Uploader, summaries *SummaryCache) *UploadPhotoUseCase {
	return &UploadPhotoUseCase{Repo: repo, Uploader: uploader, Summaries: summaries}
}

func (uc *UploadPhotoUseCase) Execute(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("profile: empty photo upload")
	}
	url, err := uc.Uploader.Upload(ctx, filename, data, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	err = uc.Repo.SetPhotoURL(ctx, userID, url)
	if errors.Is(err, profile.ErrNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// The photo is part of the summary other users see in their inbox.
	if uc.Summaries != nil {
		uc.Summaries.Invalidate(ctx, userID)
	}
	return url, nil
}
