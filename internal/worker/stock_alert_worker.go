package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/service"
	"github.com/NetraTech/netra_api/internal/sse"
)

// StockAlertWorker watches for variants dropping to their reorder level and
// alerts management. An email goes out only when a variant newly crosses the
// threshold, so a slow restock does not spam the inbox every tick.
type StockAlertWorker struct {
	skuRepo  *repository.SKURepository
	emailSvc *service.EmailService
	notifier sse.DashboardNotifier
	interval time.Duration

	alerted map[string]bool
}

// NewStockAlertWorker constructs a StockAlertWorker.
func NewStockAlertWorker(
	skuRepo *repository.SKURepository,
	emailSvc *service.EmailService,
	notifier sse.DashboardNotifier,
	interval time.Duration,
) *StockAlertWorker {
	return &StockAlertWorker{
		skuRepo:  skuRepo,
		emailSvc: emailSvc,
		notifier: notifier,
		interval: interval,
		alerted:  make(map[string]bool),
	}
}

// Start begins the periodic stock check loop until context is canceled.
func (w *StockAlertWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting stock alert worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Stock alert worker stopped")
			return
		}
	}
}

func (w *StockAlertWorker) run(ctx context.Context) {
	rows, err := w.skuRepo.GetLowStock()
	if err != nil {
		log.Error().Err(err).Msg("Failed to check low stock")
		return
	}

	current := make(map[string]bool, len(rows))
	newlyLow := 0
	for _, row := range rows {
		current[row.SKUCode] = true
		if !w.alerted[row.SKUCode] {
			newlyLow++
			w.notifier.NotifyLowStock(0, row.SKUCode, row.Stock)
			log.Warn().
				Str("sku_code", row.SKUCode).
				Int("stock", row.Stock).
				Int("reorder_level", row.ReorderLevel).
				Msg("Variant dropped to reorder level")
		}
	}
	// A restocked variant leaves the map so it can alert again later.
	w.alerted = current

	if newlyLow == 0 {
		return
	}

	if err := w.emailSvc.SendLowStockAlert(rows); err != nil {
		log.Error().Err(err).Msg("Failed to send low stock alert email")
	}
}
