package service

import (
    "context"
    "database/sql"
    "encoding/json"
    "strconv"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/rs/zerolog/log"

    "github.com/NetraTech/netra_api/internal/cache"
    "github.com/NetraTech/netra_api/internal/models"
    "github.com/NetraTech/netra_api/internal/repository"
    "github.com/NetraTech/netra_api/internal/sse"
    "github.com/NetraTech/netra_api/internal/utils"
)

var salesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
    Name: "netra_sales_total",
    Help: "Completed checkouts by payment method; training sales labeled apart",
}, []string{"payment_method", "training"})

// SaleService contains business logic for POS checkouts.
type SaleService struct {
    saleRepo    *repository.SaleRepository
    skuRepo     *repository.SKURepository
    labRepo     *repository.LabOrderRepository
    labSvc      *LabOrderService
    patientRepo *repository.PatientRepository
    settingRepo *repository.SettingRepository
    statsCache  *cache.StatsCache
    notifier    sse.DashboardNotifier
    emailSvc    *EmailService
}

// NewSaleService constructs a SaleService.
func NewSaleService(
    saleRepo *repository.SaleRepository,
    skuRepo *repository.SKURepository,
    labRepo *repository.LabOrderRepository,
    labSvc *LabOrderService,
    patientRepo *repository.PatientRepository,
    settingRepo *repository.SettingRepository,
    statsCache *cache.StatsCache,
    notifier sse.DashboardNotifier,
    emailSvc *EmailService,
) *SaleService {
    if notifier == nil {
        notifier = &sse.NopNotifier{}
    }
    return &SaleService{
        saleRepo:    saleRepo,
        skuRepo:     skuRepo,
        labRepo:     labRepo,
        labSvc:      labSvc,
        patientRepo: patientRepo,
        settingRepo: settingRepo,
        statsCache:  statsCache,
        notifier:    notifier,
        emailSvc:    emailSvc,
    }
}

// CreateSaleRequest input
type CreateSaleRequest struct {
    ClientRef     string            `json:"clientRef" binding:"required"`
    PatientID     *int              `json:"patientId"`
    EyeTestID     *int              `json:"eyeTestId"`
    StaffID       *int              `json:"staffId"`
    PaymentMethod string            `json:"paymentMethod" binding:"required,oneof=cash card upi"`
    Discount      int               `json:"discount"`
    Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemRequest is one line of a checkout. SKU lines carry skuId and
// quantity; lens lines carry a description, a unit price picked from the
// suggestion and the lens specification snapshot.
type SaleItemRequest struct {
    SKUID       *int            `json:"skuId"`
    Quantity    int             `json:"quantity" binding:"required,min=1"`
    Description string          `json:"description"`
    UnitPrice   int             `json:"unitPrice"`
    LensDetails json.RawMessage `json:"lensDetails"`
}

// CreateSale processes a checkout. Replaying a clientRef the terminal already
// used returns the original sale unchanged. Training checkouts run the full
// flow but never move stock, count revenue or reach the lab.
func (s *SaleService) CreateSale(ctx context.Context, req *CreateSaleRequest, terminal *models.Terminal, isTraining bool) (*models.Sale, error) {
    // 1. Idempotency: same terminal + clientRef replays the original sale
    existing, err := s.saleRepo.GetByClientRef(terminal.ID, req.ClientRef)
    if err == nil && existing != nil {
        log.Debug().Str("saleNumber", existing.SaleNumber).Str("clientRef", req.ClientRef).Msg("sale replayed by clientRef")
        return existing, nil
    } else if err != nil && err != sql.ErrNoRows {
        log.Error().Err(err).Msg("GetByClientRef failed")
    }

    // 2. Resolve items and compute totals server-side
    items := make([]models.SaleItem, 0, len(req.Items))
    subtotal := 0
    for _, in := range req.Items {
        item, err := s.resolveItem(&in)
        if err != nil {
            return nil, err
        }
        subtotal += item.LineTotal
        items = append(items, *item)
    }

    if req.Discount < 0 || req.Discount > subtotal {
        return nil, utils.ErrInvalidDiscount
    }
    tax := (subtotal - req.Discount) * s.taxPercent() / 100

    // 3. Generate sale number
    saleNumber, err := s.saleRepo.GenerateSaleNumber()
    if err != nil {
        return nil, err
    }

    // 4. Create sale record with items; stock guard runs inside the tx
    sale := &models.Sale{
        SaleNumber: saleNumber,
        ClientRef:  req.ClientRef,
        BranchID:   terminal.BranchID,
        TerminalID: terminal.ID,
        StaffID:    req.StaffID,
        PatientID:  req.PatientID,
        EyeTestID:  req.EyeTestID,
        IsTraining: isTraining,
        Subtotal:   subtotal,
        Discount:   req.Discount,
        Tax:        tax,
        Total:      subtotal - req.Discount + tax,
        Payment:    models.PaymentMethod(req.PaymentMethod),
        Status:     models.SaleCompleted,
        Items:      items,
    }
    if err := s.saleRepo.CreateWithItems(sale); err != nil {
        if err == sql.ErrNoRows {
            return nil, utils.ErrInsufficientStock
        }
        return nil, err
    }

    // 5. Queue a lab job per lens line
    s.queueLabOrders(sale)

    // 6. Refresh dashboard and mail the receipt asynchronously
    salesCreated.WithLabelValues(req.PaymentMethod, strconv.FormatBool(isTraining)).Inc()
    go s.invalidateStats(sale.BranchID)
    go s.sendReceipt(sale)
    s.notifier.NotifySaleCreated(sale)

    return sale, nil
}

// sendReceipt emails the patient a copy of the bill. Best effort; a checkout
// never fails on email problems. Training sales stay off patient inboxes.
func (s *SaleService) sendReceipt(sale *models.Sale) {
    if sale.IsTraining || sale.PatientID == nil || s.emailSvc == nil {
        return
    }
    patient, err := s.patientRepo.GetByID(*sale.PatientID)
    if err != nil || patient == nil || patient.Email == nil || *patient.Email == "" {
        return
    }

    footer := ""
    if setting, err := s.settingRepo.Get("pos.receipt_footer"); err == nil {
        if err := json.Unmarshal(setting.Value, &footer); err != nil {
            log.Warn().Str("value", string(setting.Value)).Msg("invalid receipt footer setting")
        }
    }

    if err := s.emailSvc.SendReceipt(*patient.Email, sale, footer); err != nil {
        log.Warn().Err(err).Str("saleNumber", sale.SaleNumber).Msg("receipt email failed")
    }
}

// resolveItem validates one line and fills server-side prices. SKU lines take
// their price from the catalog, never from the terminal.
func (s *SaleService) resolveItem(in *SaleItemRequest) (*models.SaleItem, error) {
    if in.SKUID != nil {
        sku, err := s.skuRepo.GetByID(*in.SKUID)
        if err != nil || sku == nil || !sku.IsActive {
            return nil, utils.ErrInvalidSKU
        }
        desc := in.Description
        if desc == "" {
            desc = sku.VariantName
        }
        return &models.SaleItem{
            SKUID:       in.SKUID,
            Description: desc,
            Quantity:    in.Quantity,
            UnitPrice:   sku.Price,
            LineTotal:   sku.Price * in.Quantity,
        }, nil
    }

    // Lens line: needs a description, a positive price and the lens snapshot
    if in.Description == "" || in.UnitPrice <= 0 || len(in.LensDetails) == 0 {
        return nil, utils.ErrInvalidSaleItem
    }
    return &models.SaleItem{
        Description: in.Description,
        Quantity:    in.Quantity,
        UnitPrice:   in.UnitPrice,
        LineTotal:   in.UnitPrice * in.Quantity,
        LensDetails: in.LensDetails,
    }, nil
}

// queueLabOrders creates a Queued lab order for every lens line. Failures are
// logged and left for staff to requeue; the sale itself stands.
func (s *SaleService) queueLabOrders(sale *models.Sale) {
    for i := range sale.Items {
        item := &sale.Items[i]
        if item.SKUID != nil || len(item.LensDetails) == 0 {
            continue
        }

        orderNumber, err := s.labRepo.GenerateOrderNumber()
        if err != nil {
            log.Error().Err(err).Str("saleNumber", sale.SaleNumber).Msg("failed to generate lab order number")
            continue
        }
        order := &models.LabOrder{
            OrderNumber: orderNumber,
            SaleID:      sale.ID,
            EyeTestID:   sale.EyeTestID,
            BranchID:    sale.BranchID,
            IsTraining:  sale.IsTraining,
            LensDetails: item.LensDetails,
            Status:      models.LabQueued,
        }
        if err := s.labRepo.Create(order); err != nil {
            log.Error().Err(err).Str("saleNumber", sale.SaleNumber).Msg("failed to queue lab order")
        }
    }
}

// GetSale returns a sale visible to the given terminal. Terminals only see
// their own branch, and training terminals only see training sales.
func (s *SaleService) GetSale(saleNumber string, terminal *models.Terminal, isTraining bool) (*models.Sale, error) {
    sale, err := s.saleRepo.GetBySaleNumber(saleNumber)
    if err != nil || sale == nil {
        return nil, utils.ErrSaleNotFound
    }
    if sale.BranchID != terminal.BranchID || sale.IsTraining != isTraining {
        return nil, utils.ErrSaleNotFound
    }
    return sale, nil
}

// CancelSale cancels a completed sale, restores stock and fails any lab jobs
// still waiting for dispatch.
func (s *SaleService) CancelSale(ctx context.Context, saleNumber, reason string, terminal *models.Terminal, isTraining bool) (*models.Sale, error) {
    sale, err := s.GetSale(saleNumber, terminal, isTraining)
    if err != nil {
        return nil, err
    }

    if err := s.saleRepo.Cancel(sale.ID, reason); err != nil {
        if err == sql.ErrNoRows {
            return nil, utils.ErrSaleNotCancellable
        }
        return nil, err
    }

    if n, err := s.labSvc.CancelForSale(ctx, sale.ID, "Sale cancelled"); err != nil {
        log.Error().Err(err).Str("saleNumber", saleNumber).Msg("failed to cancel lab orders")
    } else if n > 0 {
        log.Info().Int("orders", n).Str("saleNumber", saleNumber).Msg("lab orders cancelled with sale")
    }

    sale.Status = models.SaleCancelled
    sale.CancelReason = &reason

    go s.invalidateStats(sale.BranchID)
    s.notifier.NotifySaleCancelled(sale)

    return sale, nil
}

// taxPercent reads the configured GST percentage, defaulting to zero when the
// setting is absent or malformed.
func (s *SaleService) taxPercent() int {
    setting, err := s.settingRepo.Get("pos.tax_percent")
    if err != nil {
        if err != sql.ErrNoRows {
            log.Warn().Err(err).Msg("failed to load tax setting")
        }
        return 0
    }
    var pct int
    if err := json.Unmarshal(setting.Value, &pct); err != nil || pct < 0 || pct > 100 {
        log.Warn().Str("value", string(setting.Value)).Msg("invalid tax setting, using 0")
        return 0
    }
    return pct
}

// invalidateStats drops the cached dashboard snapshots touched by a sale.
func (s *SaleService) invalidateStats(branchID int) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := s.statsCache.Invalidate(ctx, cache.ScopeAll, strconv.Itoa(branchID)); err != nil {
        log.Warn().Err(err).Int("branchId", branchID).Msg("failed to invalidate dashboard stats")
    }
}
