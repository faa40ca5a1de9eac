package scheduler

import (
	"context"

	"MarketMonitor/internal/model"
)

// Publisher receives every dashboard built by a poll.
type Publisher interface {
	Publish(ctx context.Context, d *model.Dashboard) error
}
