// Package domain holds the typed entities exchanged between the HTTP
// layer, the cache adapters and the backing store.
package domain

import "time"

// UserProfile is a patient or doctor account profile
type UserProfile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate carries the mutable profile fields. Nil means "leave
// unchanged"; the update payload is explicit rather than a free-form map
// so cache keys and store columns stay in sync.
type ProfileUpdate struct {
	FullName  *string `json:"full_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// IsZero reports whether the update would change nothing
func (u ProfileUpdate) IsZero() bool {
	return u.FullName == nil && u.Phone == nil && u.AvatarURL == nil
}
