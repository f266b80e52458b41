package cache

import (
	"fmt"
	"time"

	"telecare-backend/domain"
)

// TTL tiers, chosen per data-volatility class. Content-addressed AI
// results tolerate long TTLs because the key itself encodes input
// identity; identity-based keys rely on write-triggered invalidation with
// the TTL as a safety net.
const (
	TTLVeryShort = time.Minute         // rapidly changing aggregates
	TTLShort     = 5 * time.Minute     // filtered list views
	TTLHourly    = time.Hour           // semi-static profile data
	TTLDaily     = 24 * time.Hour      // AI answer reviews
	TTLMonthly   = 30 * 24 * time.Hour // AI image analyses
)

// UserProfileKey addresses a single user's profile
func UserProfileKey(userID string) string {
	return fmt.Sprintf("user:%s:profile", userID)
}

// DoctorKey addresses a single doctor record
func DoctorKey(doctorID string) string {
	return fmt.Sprintf("doctor:%s", doctorID)
}

// DoctorListAllKey addresses the unfiltered doctor listing. Kept distinct
// from filtered variants so write paths can invalidate it directly.
const DoctorListAllKey = "doctors:all"

// DoctorListKey addresses a filtered doctor listing. The canonical filter
// serialization is digested so every distinct filter combination occupies
// its own entry.
func DoctorListKey(filter domain.DoctorFilter) string {
	if filter.IsZero() {
		return DoctorListAllKey
	}
	return "doctors:list:" + Digest([]byte(filter.Canonical()))[:16]
}

// AIResultKey addresses a content-addressed AI result for a single input
func AIResultKey(purpose, digest string) string {
	return fmt.Sprintf("ai:%s:%s", purpose, digest)
}

// AIPairKey addresses a content-addressed AI result over two inputs. The
// secondary digest is truncated to keep keys short while staying
// collision resistant for practical purposes.
func AIPairKey(purpose, primaryDigest, secondaryDigest string) string {
	return fmt.Sprintf("ai:%s:%s:%s", purpose, primaryDigest, secondaryDigest[:16])
}

// RateLimitKey addresses the sliding-window token set for one
// (endpoint, identity) pair
func RateLimitKey(endpoint, identity string) string {
	return fmt.Sprintf("ratelimit:%s:%s", endpoint, identity)
}
