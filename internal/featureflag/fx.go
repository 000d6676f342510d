package featureflag

import (
	"github.com/railzwaylabs/featuregate/internal/featureflag/domain"
	"github.com/railzwaylabs/featuregate/internal/featureflag/evaluator"
	"github.com/railzwaylabs/featuregate/internal/featureflag/repository"
	"github.com/railzwaylabs/featuregate/internal/featureflag/service"
	"github.com/railzwaylabs/featuregate/internal/observability"
	"go.uber.org/fx"
)

var Module = fx.Module("featureflag.service",
	fx.Provide(repository.New),
	fx.Provide(evaluator.Provide),
	fx.Provide(func(r *observability.Reporter) domain.ErrorReporter { return r }),
	fx.Provide(service.New),
)
