package usecase

import (
	"context"
	"errors"
	"strings"

	"calisthenics-ai/internal/shared/utils"
	"calisthenics-ai/internal/workout/domain/model"
	"calisthenics-ai/internal/workout/domain/repository"
)

// ProfileService writes the profile document created at sign-up.
type ProfileService struct {
	profiles repository.Store[model.UserProfile]
}

func NewProfileService(profiles repository.Store[model.UserProfile]) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// WriteProfile stores the profile in the new user's partition. Sign-up runs
// before a session exists, so the user becomes the principal of ctx here.
func (s *ProfileService) WriteProfile(ctx context.Context, userID, email string) error {
	if userID == "" {
		return errors.New("user ID is required")
	}
	ctx = utils.WithUserID(ctx, userID)
	_, err := s.profiles.Create(ctx, userID, model.UserProfile{Email: strings.TrimSpace(email)})
	return err
}
