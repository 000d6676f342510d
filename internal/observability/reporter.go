package observability

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Reporter records captured errors in the log, in a prometheus counter and
// on the active span. It never fails.
type Reporter struct {
	log      *zap.Logger
	captured prometheus.Counter
}

func NewReporter(log *zap.Logger, reg prometheus.Registerer) (*Reporter, error) {
	captured := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "featuregate",
		Name:      "captured_errors_total",
		Help:      "Errors captured by the feature access layer.",
	})
	if err := reg.Register(captured); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		captured = already.ExistingCollector.(prometheus.Counter)
	}

	return &Reporter{
		log:      log.Named("reporter"),
		captured: captured,
	}, nil
}

func (r *Reporter) CaptureException(ctx context.Context, err error) {
	if err == nil {
		return
	}
	r.captured.Inc()

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	fields := []zap.Field{zap.Error(err)}
	if sc := span.SpanContext(); sc.HasTraceID() {
		fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
	}
	r.log.Error("captured exception", fields...)
}
