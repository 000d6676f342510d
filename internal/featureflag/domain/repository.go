package domain

import "context"

// Repository is the store handle the access checker reads from. Lookups
// return (nil, nil) when no record matches.
type Repository interface {
	FindFeature(ctx context.Context, key FlagKey) (*Feature, error)
	FindUserFeature(ctx context.Context, userID int64, featureID string) (*UserFeature, error)
	// UserInTeamWithFeature reports whether the user exists and belongs to at
	// least one team holding a grant for featureID. A missing user and a user
	// without a qualifying team both report false.
	UserInTeamWithFeature(ctx context.Context, userID int64, featureID string) (bool, error)
	FindTeamFeature(ctx context.Context, key TeamFeatureKey) (*TeamFeature, error)
}
