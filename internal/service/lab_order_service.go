package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NetraTech/netra_api/internal/config"
	"github.com/NetraTech/netra_api/internal/models"
	"github.com/NetraTech/netra_api/internal/repository"
	"github.com/NetraTech/netra_api/internal/sse"
	"github.com/NetraTech/netra_api/internal/utils"
	"github.com/NetraTech/netra_api/pkg/optilab"
)

// maxDispatchRetries caps how often a queued order is retried before it goes
// to Failed and waits for staff intervention.
const maxDispatchRetries = 8

// LabOrderService drives the Optilab integration: dispatching queued jobs,
// polling their progress and applying status callbacks.
type LabOrderService struct {
	labRepo  *repository.LabOrderRepository
	client   *optilab.Client
	cfg      *config.WorkerConfig
	notifier sse.DashboardNotifier
}

// NewLabOrderService constructs a LabOrderService.
func NewLabOrderService(
	labRepo *repository.LabOrderRepository,
	client *optilab.Client,
	cfg *config.WorkerConfig,
	notifier sse.DashboardNotifier,
) *LabOrderService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &LabOrderService{
		labRepo:  labRepo,
		client:   client,
		cfg:      cfg,
		notifier: notifier,
	}
}

// DispatchPending claims due queued orders and submits them to the lab.
// Returns how many orders were submitted successfully.
func (s *LabOrderService) DispatchPending(ctx context.Context, limit int) (int, error) {
	orders, err := s.labRepo.GetPendingDispatch(limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range orders {
		if err := s.dispatchOne(ctx, &orders[i]); err == nil {
			sent++
		}
	}
	return sent, nil
}

// dispatchOne submits a single order and applies the outcome.
func (s *LabOrderService) dispatchOne(ctx context.Context, order *models.LabOrder) error {
	resp, err := s.client.SubmitOrder(ctx, order.OrderNumber, order.LensDetails, false)
	if err != nil {
		log.Warn().Err(err).Str("orderNumber", order.OrderNumber).Msg("lab dispatch failed, will retry")
		s.scheduleRetry(order, err.Error())
		return err
	}

	switch {
	case optilab.IsSuccess(resp.RC), optilab.IsDuplicate(resp.RC):
		// Duplicate means an earlier attempt landed; the lab echoes its ref.
		if resp.LabRef == "" {
			s.scheduleRetry(order, "lab accepted without reference")
			return fmt.Errorf("missing lab_ref for %s", order.OrderNumber)
		}
		if err := s.labRepo.MarkSent(order.ID, resp.LabRef); err != nil {
			return err
		}
		order.Status = models.LabSent
		order.RemoteRef = &resp.LabRef
		s.notifier.NotifyLabOrderStatusChanged(order)
		log.Info().
			Str("orderNumber", order.OrderNumber).
			Str("labRef", resp.LabRef).
			Int("etaDays", resp.EtaDays).
			Msg("lab order dispatched")
		return nil

	case optilab.IsFatal(resp.RC):
		reason := fmt.Sprintf("lab rejected (rc=%s): %s", resp.RC, resp.Message)
		if err := s.labRepo.MarkFailed(order.ID, reason); err != nil {
			return err
		}
		order.Status = models.LabFailed
		s.notifier.NotifyLabOrderStatusChanged(order)
		log.Error().Str("orderNumber", order.OrderNumber).Str("rc", resp.RC).Str("message", resp.Message).Msg("lab order rejected")
		return fmt.Errorf("lab rejected %s: %s", order.OrderNumber, resp.Message)

	default:
		// Retryable or unknown RC: back off and try again
		s.scheduleRetry(order, fmt.Sprintf("rc=%s: %s", resp.RC, resp.Message))
		return fmt.Errorf("lab busy for %s (rc=%s)", order.OrderNumber, resp.RC)
	}
}

// scheduleRetry books the next attempt; orders out of budget go to Failed.
func (s *LabOrderService) scheduleRetry(order *models.LabOrder, reason string) {
	if err := s.labRepo.MarkRetry(order.ID, reason, s.cfg.LabRetryInterval, maxDispatchRetries); err != nil {
		log.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("failed to schedule lab retry")
	}
}

// PollActiveOrders refreshes dispatched orders whose status has gone stale.
// Returns how many orders changed state.
func (s *LabOrderService) PollActiveOrders(ctx context.Context, limit int) (int, error) {
	orders, err := s.labRepo.GetActiveRemote(s.cfg.LabStatusStaleAfter, s.cfg.LabStatusMaxAge, limit)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range orders {
		order := &orders[i]
		resp, err := s.client.GetStatus(ctx, *order.RemoteRef, false)
		if err != nil {
			log.Warn().Err(err).Str("orderNumber", order.OrderNumber).Msg("lab status poll failed")
			continue
		}
		if s.applyRemoteStatus(order, resp.Status, resp.Message) {
			changed++
		}
	}
	return changed, nil
}

// HandleCallback applies a status push from the lab. The handler verifies the
// signature before calling this.
func (s *LabOrderService) HandleCallback(payload *optilab.CallbackPayload) error {
	order, err := s.labRepo.GetByOrderNumber(payload.OrderRef)
	if err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrLabOrderNotFound
		}
		return err
	}
	if order.RemoteRef == nil || *order.RemoteRef != payload.LabRef {
		log.Warn().
			Str("orderNumber", payload.OrderRef).
			Str("labRef", payload.LabRef).
			Msg("lab callback reference mismatch")
		return utils.ErrLabOrderNotFound
	}

	s.applyRemoteStatus(order, payload.Status, payload.Message)
	return nil
}

// applyRemoteStatus maps a lab-side status onto the order lifecycle and
// persists the transition. Reports whether anything changed.
func (s *LabOrderService) applyRemoteStatus(order *models.LabOrder, remoteStatus, message string) bool {
	status, ok := mapRemoteStatus(remoteStatus)
	if !ok {
		log.Warn().Str("orderNumber", order.OrderNumber).Str("remoteStatus", remoteStatus).Msg("unknown lab status")
		return false
	}

	changed, err := s.labRepo.UpdateRemoteStatus(order.ID, status)
	if err != nil {
		log.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("failed to apply lab status")
		return false
	}
	if !changed {
		return false
	}

	if status == models.LabFailed && message != "" {
		if err := s.labRepo.MarkFailed(order.ID, message); err != nil {
			log.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("failed to record lab failure reason")
		}
	}

	order.Status = status
	s.notifier.NotifyLabOrderStatusChanged(order)
	log.Info().
		Str("orderNumber", order.OrderNumber).
		Str("status", string(status)).
		Msg("lab order status changed")
	return true
}

// mapRemoteStatus translates Optilab statuses to the order lifecycle.
// COLLECTED means the branch picked the job up from the lab, so the lens is
// ready for the customer.
func mapRemoteStatus(remote string) (models.LabOrderStatus, bool) {
	switch remote {
	case optilab.StatusReceived:
		return models.LabSent, true
	case optilab.StatusInProgress:
		return models.LabInProgress, true
	case optilab.StatusReady, optilab.StatusCollected:
		return models.LabReady, true
	case optilab.StatusRejected:
		return models.LabFailed, true
	default:
		return "", false
	}
}

// GetByOrderNumber returns one lab order.
func (s *LabOrderService) GetByOrderNumber(orderNumber string) (*models.LabOrder, error) {
	order, err := s.labRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLabOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetBySale returns the lab orders attached to a sale.
func (s *LabOrderService) GetBySale(saleID int) ([]models.LabOrder, error) {
	return s.labRepo.GetBySaleID(saleID)
}

// MarkDelivered records the customer collecting their finished lenses.
// Only orders the lab has finished can be handed over.
func (s *LabOrderService) MarkDelivered(orderNumber string) (*models.LabOrder, error) {
	order, err := s.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	if order.Status != models.LabReady {
		return nil, utils.ErrLabOrderNotReady
	}

	changed, err := s.labRepo.UpdateRemoteStatus(order.ID, models.LabDelivered)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, utils.ErrLabOrderNotFound
	}

	order.Status = models.LabDelivered
	now := time.Now()
	order.DeliveredAt = &now
	s.notifier.NotifyLabOrderStatusChanged(order)
	return order, nil
}

// CancelForSale stops the lab orders of a cancelled sale. Queued orders fail
// locally; dispatched orders get a cancel request at the lab. Jobs the lab
// refuses to drop are left alone, the lens arrives and staff handle it.
// Returns how many orders were stopped.
func (s *LabOrderService) CancelForSale(ctx context.Context, saleID int, reason string) (int, error) {
	stopped, err := s.labRepo.CancelQueuedBySaleID(saleID, reason)
	if err != nil {
		return 0, err
	}

	orders, err := s.labRepo.GetBySaleID(saleID)
	if err != nil {
		return stopped, err
	}
	for i := range orders {
		order := &orders[i]
		if order.RemoteRef == nil ||
			(order.Status != models.LabSent && order.Status != models.LabInProgress) {
			continue
		}

		resp, err := s.client.CancelOrder(ctx, *order.RemoteRef, false)
		if err != nil {
			log.Warn().Err(err).Str("orderNumber", order.OrderNumber).Msg("lab cancel request failed")
			continue
		}
		if !optilab.IsSuccess(resp.RC) {
			log.Info().
				Str("orderNumber", order.OrderNumber).
				Str("rc", resp.RC).
				Str("message", resp.Message).
				Msg("lab refused to cancel, job keeps running")
			continue
		}

		if err := s.labRepo.MarkFailed(order.ID, reason); err != nil {
			log.Error().Err(err).Str("orderNumber", order.OrderNumber).Msg("failed to record lab cancellation")
			continue
		}
		order.Status = models.LabFailed
		s.notifier.NotifyLabOrderStatusChanged(order)
		stopped++
	}
	return stopped, nil
}

// Requeue puts a failed order back on the dispatch queue.
func (s *LabOrderService) Requeue(orderNumber string) (*models.LabOrder, error) {
	order, err := s.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}

	if err := s.labRepo.Requeue(order.ID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrLabAlreadyQueued
		}
		return nil, err
	}

	order.Status = models.LabQueued
	log.Info().Str("orderNumber", orderNumber).Msg("lab order requeued")
	return order, nil
}

// ListAdmin returns lab orders for the admin panel.
func (s *LabOrderService) ListAdmin(filter *repository.AdminLabOrderFilter) (*repository.AdminLabOrderResult, error) {
	return s.labRepo.GetAllAdmin(filter)
}

// Ping checks lab connectivity for the admin settings page.
func (s *LabOrderService) Ping(ctx context.Context) (*optilab.PingResponse, error) {
	return s.client.Ping(ctx)
}
