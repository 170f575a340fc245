package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/cache"
	"github.com/NetraTech/netra_api/internal/repository"
)

// DashboardService assembles the daily snapshot shown on the admin dashboard.
// Snapshots are cached in Redis per branch scope and expire at end of day IST;
// sale mutations invalidate them and the report worker refreshes them.
type DashboardService struct {
	saleRepo    *repository.SaleRepository
	eyeTestRepo *repository.EyeTestRepository
	patientRepo *repository.PatientRepository
	labRepo     *repository.LabOrderRepository
	skuRepo     *repository.SKURepository
	statsCache  *cache.StatsCache
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	saleRepo *repository.SaleRepository,
	eyeTestRepo *repository.EyeTestRepository,
	patientRepo *repository.PatientRepository,
	labRepo *repository.LabOrderRepository,
	skuRepo *repository.SKURepository,
	statsCache *cache.StatsCache,
) *DashboardService {
	return &DashboardService{
		saleRepo:    saleRepo,
		eyeTestRepo: eyeTestRepo,
		patientRepo: patientRepo,
		labRepo:     labRepo,
		skuRepo:     skuRepo,
		statsCache:  statsCache,
	}
}

// statsScope maps a branch filter to a cache scope. Zero means chain-wide.
func statsScope(branchID int) string {
	if branchID == 0 {
		return cache.ScopeAll
	}
	return strconv.Itoa(branchID)
}

// GetStats returns the dashboard snapshot for a branch (0 = all branches),
// serving from cache when possible.
func (s *DashboardService) GetStats(ctx context.Context, branchID int) (*cache.DashboardStats, error) {
	scope := statsScope(branchID)

	if cached, err := s.statsCache.Get(ctx, scope); err == nil {
		return cached, nil
	}

	stats, err := s.computeStats(branchID)
	if err != nil {
		return nil, err
	}

	if err := s.statsCache.Set(ctx, scope, stats); err != nil {
		log.Warn().Err(err).Str("scope", scope).Msg("failed to cache dashboard stats")
	}

	return stats, nil
}

// RefreshStats recomputes and stores a branch snapshot unconditionally.
// The report worker calls this so the dashboard stays warm.
func (s *DashboardService) RefreshStats(ctx context.Context, branchID int) error {
	stats, err := s.computeStats(branchID)
	if err != nil {
		return err
	}
	return s.statsCache.Set(ctx, statsScope(branchID), stats)
}

// computeStats gathers today's numbers from the database.
func (s *DashboardService) computeStats(branchID int) (*cache.DashboardStats, error) {
	stats := &cache.DashboardStats{}

	count, revenue, err := s.saleRepo.TodayStats(branchID)
	if err != nil {
		return nil, err
	}
	stats.SalesToday = count
	stats.RevenueToday = revenue

	if stats.EyeTestsToday, err = s.eyeTestRepo.CountToday(branchID); err != nil {
		return nil, err
	}
	if stats.NewPatientsToday, err = s.patientRepo.CountNewToday(branchID); err != nil {
		return nil, err
	}
	if stats.PendingLabOrders, err = s.labRepo.CountPending(branchID); err != nil {
		return nil, err
	}
	// Stock is a chain-wide pool, so the low-stock count ignores the branch filter.
	if stats.LowStockSKUs, err = s.skuRepo.CountLowStock(); err != nil {
		return nil, err
	}
	if stats.TopSellingSKU, err = s.saleRepo.TopSellingSKU(branchID); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetSalesTrend returns the 30-day sales trend for a branch (0 = all branches).
func (s *DashboardService) GetSalesTrend(branchID int) ([]repository.SalesTrend, error) {
	return s.saleRepo.GetDailyTrend(branchID)
}
