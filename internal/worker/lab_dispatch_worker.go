package worker

import (
    "context"
    "time"

    "github.com/rs/zerolog/log"

    "github.com/NetraTech/netra_api/internal/service"
)

// dispatchBatchSize caps how many queued orders one tick sends to the lab.
const dispatchBatchSize = 25

// LabDispatchWorker pushes queued lab orders to Optilab periodically.
type LabDispatchWorker struct {
    labService *service.LabOrderService
    interval   time.Duration
}

// NewLabDispatchWorker constructs a LabDispatchWorker.
func NewLabDispatchWorker(labService *service.LabOrderService, interval time.Duration) *LabDispatchWorker {
    return &LabDispatchWorker{
        labService: labService,
        interval:   interval,
    }
}

// Start begins the periodic dispatch loop until context is canceled.
func (w *LabDispatchWorker) Start(ctx context.Context) {
    log.Info().Dur("interval", w.interval).Msg("Starting lab dispatch worker")

    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ticker.C:
            w.run(ctx)
        case <-ctx.Done():
            log.Info().Msg("Lab dispatch worker stopped")
            return
        }
    }
}

func (w *LabDispatchWorker) run(ctx context.Context) {
    sent, err := w.labService.DispatchPending(ctx, dispatchBatchSize)
    if err != nil {
        log.Error().Err(err).Msg("Failed to dispatch queued lab orders")
        return
    }
    if sent > 0 {
        log.Info().Int("count", sent).Msg("Dispatched queued lab orders")
    }
}
