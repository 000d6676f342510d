package domain

import "context"

// Service answers feature enablement questions. Errors are never folded
// into a false result: callers must treat a returned error as unknown.
type Service interface {
	IsGloballyEnabled(ctx context.Context, key FlagKey) (bool, error)
	UserHasFeature(ctx context.Context, userID int64, slug string) (bool, error)
	TeamHasFeature(ctx context.Context, teamID int64, key FlagKey) (bool, error)
}

// GlobalEvaluator decides whether a flag is enabled independently of any
// user or team.
type GlobalEvaluator interface {
	IsEnabled(ctx context.Context, store Repository, key FlagKey) (bool, error)
}

// ErrorReporter records failures for observability. It must not fail.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error)
}
