package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Doctor is a bookable practitioner in the directory
type Doctor struct {
	ID              string  `json:"id"`
	FullName        string  `json:"full_name"`
	Specialization  string  `json:"specialization"`
	ConsultationFee int     `json:"consultation_fee"`
	Rating          float64 `json:"rating"`
	YearsExperience int     `json:"years_experience"`
	Available       bool    `json:"available"`
}

// DoctorFilter narrows a doctor listing. Every field that affects the
// result set must be represented here so list cache keys stay collision
// free.
type DoctorFilter struct {
	Specialization string `json:"specialization,omitempty"`
	MinFee         *int   `json:"min_fee,omitempty"`
	MaxFee         *int   `json:"max_fee,omitempty"`
	Search         string `json:"search,omitempty"`
	AvailableOnly  bool   `json:"available_only,omitempty"`
}

// Normalize folds the free-text fields into their canonical form:
// specialization lowercased, search trimmed and lowercased. Both the
// cache key and the backing query must be derived from the normalized
// filter, so that key equality always implies query equality.
func (f DoctorFilter) Normalize() DoctorFilter {
	f.Specialization = strings.ToLower(strings.TrimSpace(f.Specialization))
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	return f
}

// IsZero reports whether the filter selects the full, unfiltered listing
func (f DoctorFilter) IsZero() bool {
	return f.Specialization == "" && f.MinFee == nil && f.MaxFee == nil &&
		f.Search == "" && !f.AvailableOnly
}

// Canonical returns a stable serialization of the set fields, ordered by
// field name. Two filters selecting the same result set always produce
// the same string, regardless of how they were constructed.
func (f DoctorFilter) Canonical() string {
	pairs := make([]string, 0, 5)
	if f.AvailableOnly {
		pairs = append(pairs, "available_only=true")
	}
	if f.MaxFee != nil {
		pairs = append(pairs, fmt.Sprintf("max_fee=%d", *f.MaxFee))
	}
	if f.MinFee != nil {
		pairs = append(pairs, fmt.Sprintf("min_fee=%d", *f.MinFee))
	}
	if f.Search != "" {
		pairs = append(pairs, "search="+strings.ToLower(strings.TrimSpace(f.Search)))
	}
	if f.Specialization != "" {
		pairs = append(pairs, "specialization="+strings.ToLower(f.Specialization))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}
