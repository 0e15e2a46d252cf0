package repo

import (
	"context"

	"github.com/worshipdesk/worshipdesk-backend/pkg/logger"
	"github.com/worshipdesk/worshipdesk-backend/pkg/metrics"
)

// ReadPolicy implements the read side of the store error policy: a failed
// read is logged and counted, and the caller returns its empty value.
type ReadPolicy struct {
	logg    *logger.Logger
	metrics *metrics.OperationMetrics
}

func NewReadPolicy(logg *logger.Logger, m *metrics.OperationMetrics) ReadPolicy {
	return ReadPolicy{logg: logg, metrics: m}
}

// Fail records a degraded read for op.
func (p ReadPolicy) Fail(ctx context.Context, op string, err error) {
	p.metrics.IncDegraded(op)
	if p.logg == nil {
		return
	}
	ctx = p.logg.WithField(ctx, "operation", op)
	p.logg.Error(ctx, "read degraded to empty result", err)
}
