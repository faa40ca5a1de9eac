package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"MarketMonitor/internal/model"
)

// AlertPublisher sends a message whenever a symbol's signal changes into
// STRONG BUY or STRONG SELL. Symbols that fail to evaluate keep their last label.
type AlertPublisher struct {
	sender Sender

	mu   sync.Mutex
	last map[string]model.SignalLabel
}

// NewAlertPublisher creates an AlertPublisher.
func NewAlertPublisher(sender Sender) *AlertPublisher {
	return &AlertPublisher{sender: sender, last: make(map[string]model.SignalLabel)}
}

func isStrong(s model.SignalLabel) bool {
	return s == model.SignalStrongBuy || s == model.SignalStrongSell
}

// Publish inspects a dashboard and sends alerts for new strong signals.
func (a *AlertPublisher) Publish(ctx context.Context, d *model.Dashboard) error {
	var alerts []string

	a.mu.Lock()
	for _, v := range d.Symbols {
		if v.Report == nil {
			continue
		}
		prev := a.last[v.Symbol]
		a.last[v.Symbol] = v.Report.Signal
		if isStrong(v.Report.Signal) && prev != v.Report.Signal {
			alerts = append(alerts, FormatAlert(prev, v.Report))
		}
	}
	a.mu.Unlock()

	var errs []error
	for _, text := range alerts {
		if err := a.sender.SendWithRetry(ctx, text, 3); err != nil {
			log.Error().Err(err).Msg("send alert")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
