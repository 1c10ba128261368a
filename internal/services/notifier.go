package services

import (
	"context"
	"time"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
	"github.com/barangaylink/sglgb-backend/internal/observability"
	"github.com/barangaylink/sglgb-backend/internal/platform/logger"
)

// AssessmentNotifier emits workflow events to the bus. Emission is
// best-effort: a failed publish is logged and counted, never returned, so a
// committed transition can't be rolled back by a flaky broker.
type AssessmentNotifier interface {
	AuditLogged(ev types.AuditEvent)
	VerdictIssued(ev types.VerdictEvent)
}

type assessmentNotifier struct {
	log *logger.Logger
	bus EventBus
}

func NewAssessmentNotifier(log *logger.Logger, bus EventBus) AssessmentNotifier {
	return &assessmentNotifier{
		log: log.With("service", "AssessmentNotifier"),
		bus: bus,
	}
}

func (n *assessmentNotifier) AuditLogged(ev types.AuditEvent) {
	n.publish(ChannelAudit, ev)
}

func (n *assessmentNotifier) VerdictIssued(ev types.VerdictEvent) {
	n.publish(ChannelVerdict, ev)
}

func (n *assessmentNotifier) publish(channel string, payload any) {
	if n == nil || n.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.bus.Publish(ctx, channel, payload); err != nil {
		n.log.Warn("event publish failed", "channel", channel, "error", err)
		if m := observability.Current(); m != nil {
			m.IncEventPublished(channel, "error")
		}
		return
	}
	if m := observability.Current(); m != nil {
		m.IncEventPublished(channel, "ok")
	}
}
