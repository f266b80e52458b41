// Package ports defines the interfaces the application layer depends on.
// Implementations live under infrastructure; services accept these
// interfaces and return concrete domain types.
package ports

import (
	"context"

	"telecare-backend/domain"
)

// ProfileRepository reads and writes user profiles in the backing store
type ProfileRepository interface {
	FindByID(ctx context.Context, userID string) (*domain.UserProfile, error)
	Update(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.UserProfile, error)
}

// DoctorRepository reads the doctor directory from the backing store
type DoctorRepository interface {
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
	FindByID(ctx context.Context, doctorID string) (*domain.Doctor, error)
}

// AIClient invokes the external generative model. Calls are expensive and
// billed per request; callers are expected to deduplicate via
// content-addressed caching.
type AIClient interface {
	AnalyzeImage(ctx context.Context, image []byte) (*domain.ImageAnalysis, error)
	ReviewAnswers(ctx context.Context, questions, answers []string) (*domain.AnswerReview, error)
}
