package service

import (
	"context"

	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Repo      domain.Repository
	Evaluator domain.GlobalEvaluator
	Reporter  domain.ErrorReporter
}

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	evaluator domain.GlobalEvaluator
	reporter  domain.ErrorReporter
	tracer    trace.Tracer
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("featureflag.service"),
		repo:      p.Repo,
		evaluator: p.Evaluator,
		reporter:  p.Reporter,
		tracer:    otel.Tracer("github.com/railzwaylabs/featuregate/internal/featureflag"),
	}
}

func (s *Service) IsGloballyEnabled(ctx context.Context, key domain.FlagKey) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "featureflag.IsGloballyEnabled",
		trace.WithAttributes(attribute.String("feature.slug", string(key))))
	defer span.End()

	enabled, err := s.evaluator.IsEnabled(ctx, s.repo, key)
	if err != nil {
		s.reporter.CaptureException(ctx, err)
		return false, err
	}
	return enabled, nil
}

func (s *Service) UserHasFeature(ctx context.Context, userID int64, slug string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "featureflag.UserHasFeature",
		trace.WithAttributes(
			attribute.Int64("user.id", userID),
			attribute.String("feature.slug", slug),
		))
	defer span.End()

	grant, err := s.repo.FindUserFeature(ctx, userID, slug)
	if err != nil {
		s.reporter.CaptureException(ctx, err)
		return false, err
	}
	if grant != nil {
		return true, nil
	}

	// Organizations are teams, so this also covers org-level grants.
	viaTeam, err := s.userBelongsToTeamWithFeature(ctx, userID, slug)
	if err != nil {
		s.reporter.CaptureException(ctx, err)
		return false, err
	}
	if viaTeam {
		s.log.Debug("feature granted via team membership",
			zap.Int64("user_id", userID),
			zap.String("slug", slug),
		)
	}
	return viaTeam, nil
}

// userBelongsToTeamWithFeature returns false both for a user that does not
// exist and for a user with no team holding the grant. Errors are left for
// the caller to report.
func (s *Service) userBelongsToTeamWithFeature(ctx context.Context, userID int64, slug string) (bool, error) {
	return s.repo.UserInTeamWithFeature(ctx, userID, slug)
}

func (s *Service) TeamHasFeature(ctx context.Context, teamID int64, key domain.FlagKey) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "featureflag.TeamHasFeature",
		trace.WithAttributes(
			attribute.Int64("team.id", teamID),
			attribute.String("feature.slug", string(key)),
		))
	defer span.End()

	grant, err := s.repo.FindTeamFeature(ctx, domain.TeamFeatureKey{TeamID: teamID, FeatureID: key})
	if err != nil {
		s.reporter.CaptureException(ctx, err)
		return false, err
	}
	return grant != nil, nil
}
