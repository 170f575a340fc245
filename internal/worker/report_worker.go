package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/service"
)

// ReportWorker keeps the dashboard snapshot warm and emails the end-of-day
// numbers to management once per day.
type ReportWorker struct {
	dashboardSvc *service.DashboardService
	emailSvc     *service.EmailService
	interval     time.Duration
	dailyHour    int

	lastReportDay string
}

// NewReportWorker constructs a ReportWorker.
func NewReportWorker(
	dashboardSvc *service.DashboardService,
	emailSvc *service.EmailService,
	interval time.Duration,
	dailyHour int,
) *ReportWorker {
	return &ReportWorker{
		dashboardSvc: dashboardSvc,
		emailSvc:     emailSvc,
		interval:     interval,
		dailyHour:    dailyHour,
	}
}

// Start begins the periodic report loop until context is canceled.
func (w *ReportWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Int("daily_hour", w.dailyHour).
		Msg("Starting report worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Report worker stopped")
			return
		}
	}
}

func (w *ReportWorker) run(ctx context.Context) {
	// Chain-wide snapshot; branch scopes refresh lazily on dashboard reads.
	if err := w.dashboardSvc.RefreshStats(ctx, 0); err != nil {
		log.Error().Err(err).Msg("Failed to refresh dashboard snapshot")
		return
	}

	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Now().In(ist)
	today := now.Format("2006-01-02")

	if now.Hour() < w.dailyHour || w.lastReportDay == today {
		return
	}

	stats, err := w.dashboardSvc.GetStats(ctx, 0)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load stats for daily report")
		return
	}

	if err := w.emailSvc.SendDailyReport(today, stats); err != nil {
		log.Error().Err(err).Msg("Failed to send daily report email")
		return
	}

	w.lastReportDay = today
	log.Info().Str("date", today).Msg("Daily report sent")
}
