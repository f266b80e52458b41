// Package services composes the cache-aside orchestrator with the backing
// store repositories and the external AI client. These are the domain
// cache adapters: callers get the same typed results the uncached
// repositories would return, plus invalidation hooks for write paths.
package services

import (
	"context"

	"telecare-backend/application/ports"
	"telecare-backend/domain"
	"telecare-backend/infrastructure/cache"
	"telecare-backend/pkg/retry"

	"go.uber.org/zap"
)

// ProfileService caches user profile reads and invalidates on writes
type ProfileService struct {
	repo   ports.ProfileRepository
	store  *cache.Store
	retry  retry.Config
	logger *zap.Logger
}

// NewProfileService creates a profile cache adapter
func NewProfileService(repo ports.ProfileRepository, store *cache.Store, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		repo:   repo,
		store:  store,
		retry:  retry.DefaultConfig(),
		logger: logger,
	}
}

// GetProfile returns the user's profile, served from cache when possible.
// The backing-store read is retried on transient failures only; domain
// errors (not found, forbidden) surface immediately.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return cache.GetOrCompute(ctx, s.store, cache.UserProfileKey(userID), cache.TTLHourly,
		func(ctx context.Context) (*domain.UserProfile, error) {
			return retry.Do(ctx, s.retry, s.logger, func(ctx context.Context) (*domain.UserProfile, error) {
				return s.repo.FindByID(ctx, userID)
			})
		})
}

// UpdateProfile writes the mutation to the backing store and invalidates
// the cached profile so the next read recomputes.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	profile, err := s.repo.Update(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.InvalidateProfile(ctx, userID)
	return profile, nil
}

// InvalidateProfile deletes the user's cached profile. Every profile
// mutation path must call this.
func (s *ProfileService) InvalidateProfile(ctx context.Context, userID string) {
	s.store.Delete(ctx, cache.UserProfileKey(userID))
}
