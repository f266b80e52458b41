package services

import (
	"context"

	"telecare-backend/application/ports"
	"telecare-backend/domain"
	"telecare-backend/infrastructure/cache"
	"telecare-backend/pkg/retry"

	"go.uber.org/zap"
)

// DoctorService caches the doctor directory with filter-aware key fan-out
type DoctorService struct {
	repo   ports.DoctorRepository
	store  *cache.Store
	retry  retry.Config
	logger *zap.Logger
}

// NewDoctorService creates a doctor listing cache adapter
func NewDoctorService(repo ports.DoctorRepository, store *cache.Store, logger *zap.Logger) *DoctorService {
	return &DoctorService{
		repo:   repo,
		store:  store,
		retry:  retry.DefaultConfig(),
		logger: logger,
	}
}

// ListDoctors returns the directory matching filter. Every distinct
// filter combination occupies its own cache entry; the unfiltered listing
// lives under its own well-known key so writes can invalidate it.
// The filter is normalized up front so the cache key and the backing
// query always see the same values.
func (s *DoctorService) ListDoctors(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	filter = filter.Normalize()
	return cache.GetOrCompute(ctx, s.store, cache.DoctorListKey(filter), cache.TTLShort,
		func(ctx context.Context) ([]domain.Doctor, error) {
			return retry.Do(ctx, s.retry, s.logger, func(ctx context.Context) ([]domain.Doctor, error) {
				return s.repo.List(ctx, filter)
			})
		})
}

// GetDoctor returns a single doctor record
func (s *DoctorService) GetDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	return cache.GetOrCompute(ctx, s.store, cache.DoctorKey(doctorID), cache.TTLHourly,
		func(ctx context.Context) (*domain.Doctor, error) {
			return retry.Do(ctx, s.retry, s.logger, func(ctx context.Context) (*domain.Doctor, error) {
				return s.repo.FindByID(ctx, doctorID)
			})
		})
}

// InvalidateDoctor deletes the doctor's entity key and the unfiltered
// listing. Filtered list variants cannot be enumerated without
// pattern-deletion support on the store; they age out within TTLShort.
// That staleness window is an accepted, documented limitation.
func (s *DoctorService) InvalidateDoctor(ctx context.Context, doctorID string) {
	s.store.Delete(ctx, cache.DoctorKey(doctorID), cache.DoctorListAllKey)
}
