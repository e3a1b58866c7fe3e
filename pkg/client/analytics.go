package client

import (
	"go.uber.org/zap"

	"intake_backend/pkg/intake"
)

const (
	EventQuickIntakeView   = "quick_intake_view"
	EventQuickIntakeSubmit = "quick_intake_submit"
)

// Analytics receives form events. Implementations must not block.
type Analytics interface {
	Track(event string, props map[string]string)
}

type noopAnalytics struct{}

func (noopAnalytics) Track(string, map[string]string) {}

// ZapAnalytics writes events to the application log.
type ZapAnalytics struct {
	log *zap.Logger
}

func NewZapAnalytics(log *zap.Logger) *ZapAnalytics {
	return &ZapAnalytics{log: log.Named("analytics")}
}

func (a *ZapAnalytics) Track(event string, props map[string]string) {
	fields := make([]zap.Field, 0, len(props)+1)
	fields = append(fields, zap.String("event", event))
	for k, v := range props {
		fields = append(fields, zap.String(k, v))
	}
	a.log.Info("form event", fields...)
}

func viewProps() map[string]string {
	return map[string]string{
		"event_category": "form",
		"event_label":    "quick_deal_intake",
	}
}

func submitProps(p *intake.QuickIntakePayload) map[string]string {
	props := viewProps()
	props["deal_type"] = p.DealType
	props["state"] = p.PropertyState
	props["est_amount"] = p.EstimatedLoanAmount
	props["timeline"] = p.TimelineToClose
	return props
}
