package supabase

import (
	"context"

	"telecare-backend/domain"
	apperrors "telecare-backend/pkg/errors"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const profilesTable = "profiles"

// ProfileRepository reads and writes user profiles in Supabase
type ProfileRepository struct {
	client *supa.Client
	logger *zap.Logger
}

// NewProfileRepository creates a profile repository
func NewProfileRepository(client *supa.Client, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{client: client, logger: logger}
}

// FindByID returns the profile for userID
func (r *ProfileRepository) FindByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profiles []domain.UserProfile
	_, err := r.client.From(profilesTable).
		Select("*", "", false).
		Eq("id", userID).
		ExecuteTo(&profiles)
	if err != nil {
		return nil, apperrors.NewStoreError("find profile", err)
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewNotFoundError("profile")
	}
	return &profiles[0], nil
}

// Update applies the set fields of update to the profile row and returns
// the updated profile
func (r *ProfileRepository) Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if update.IsZero() {
		return r.FindByID(ctx, userID)
	}

	payload := map[string]interface{}{}
	if update.FullName != nil {
		payload["full_name"] = *update.FullName
	}
	if update.Phone != nil {
		payload["phone"] = *update.Phone
	}
	if update.AvatarURL != nil {
		payload["avatar_url"] = *update.AvatarURL
	}

	var profiles []domain.UserProfile
	_, err := r.client.From(profilesTable).
		Update(payload, "representation", "").
		Eq("id", userID).
		ExecuteTo(&profiles)
	if err != nil {
		return nil, apperrors.NewStoreError("update profile", err)
	}
	if len(profiles) == 0 {
		return nil, apperrors.NewNotFoundError("profile")
	}
	return &profiles[0], nil
}
