package supabase

import (
	"context"
	"strconv"

	"telecare-backend/domain"
	apperrors "telecare-backend/pkg/errors"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

const doctorsTable = "doctors"

// DoctorRepository reads the doctor directory from Supabase
type DoctorRepository struct {
	client *supa.Client
	logger *zap.Logger
}

// NewDoctorRepository creates a doctor repository
func NewDoctorRepository(client *supa.Client, logger *zap.Logger) *DoctorRepository {
	return &DoctorRepository{client: client, logger: logger}
}

// List returns doctors matching filter, ordered by rating
func (r *DoctorRepository) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	query := r.client.From(doctorsTable).Select("*", "", false)

	if filter.Specialization != "" {
		query = query.Eq("specialization", filter.Specialization)
	}
	if filter.MinFee != nil {
		query = query.Gte("consultation_fee", strconv.Itoa(*filter.MinFee))
	}
	if filter.MaxFee != nil {
		query = query.Lte("consultation_fee", strconv.Itoa(*filter.MaxFee))
	}
	if filter.Search != "" {
		query = query.Ilike("full_name", "%"+filter.Search+"%")
	}
	if filter.AvailableOnly {
		query = query.Eq("available", "true")
	}

	var doctors []domain.Doctor
	if _, err := query.ExecuteTo(&doctors); err != nil {
		return nil, apperrors.NewStoreError("list doctors", err)
	}
	return doctors, nil
}

// FindByID returns a single doctor record
func (r *DoctorRepository) FindByID(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	var doctors []domain.Doctor
	_, err := r.client.From(doctorsTable).
		Select("*", "", false).
		Eq("id", doctorID).
		ExecuteTo(&doctors)
	if err != nil {
		return nil, apperrors.NewStoreError("find doctor", err)
	}
	if len(doctors) == 0 {
		return nil, apperrors.NewNotFoundError("doctor")
	}
	return &doctors[0], nil
}
