// Package supabase implements the backing-store repositories against the
// hosted relational backend. These are the producers the cache adapters
// fall back to on a miss; they carry no caching logic themselves.
package supabase

import (
	"fmt"

	"telecare-backend/infrastructure/config"

	supa "github.com/supabase-community/supabase-go"
)

// NewClient creates the shared Supabase client
func NewClient(cfg *config.Config) (*supa.Client, error) {
	client, err := supa.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, &supa.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}
