package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/service"
)

// statusBatchSize caps how many in-flight orders one tick re-checks.
const statusBatchSize = 50

// LabStatusWorker polls Optilab for orders that have not received a webhook.
// Optilab status checks are idempotent, so polling an order that just got a
// callback is harmless.
type LabStatusWorker struct {
	labService *service.LabOrderService
	interval   time.Duration
}

// NewLabStatusWorker constructs a LabStatusWorker.
func NewLabStatusWorker(labService *service.LabOrderService, interval time.Duration) *LabStatusWorker {
	return &LabStatusWorker{
		labService: labService,
		interval:   interval,
	}
}

// Start begins the periodic status poll loop until context is canceled.
func (w *LabStatusWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting lab status worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Lab status worker stopped")
			return
		}
	}
}

func (w *LabStatusWorker) run(ctx context.Context) {
	checked, err := w.labService.PollActiveOrders(ctx, statusBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to poll lab order statuses")
		return
	}
	if checked > 0 {
		log.Debug().Int("count", checked).Msg("Polled lab order statuses")
	}
}
