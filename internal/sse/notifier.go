package sse

import (
	"time"

	"github.com/NetraTech/netra_api/internal/models"
)

// DashboardNotifier is the interface services use to emit live events.
// Training-mode activity is never broadcast.
type DashboardNotifier interface {
	NotifySaleCreated(sale *models.Sale)
	NotifySaleCancelled(sale *models.Sale)
	NotifyLabOrderStatusChanged(order *models.LabOrder)
	NotifyLowStock(branchID int, skuCode string, stock int)
}

// HubNotifier implements DashboardNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifySaleCreated(sale *models.Sale) {
	if n.hub.ClientCount() == 0 || sale.IsTraining {
		return
	}
	total := sale.Total
	n.hub.Broadcast(&DashboardEvent{
		Event:      EventSaleCreated,
		BranchID:   sale.BranchID,
		SaleNumber: sale.SaleNumber,
		Status:     string(sale.Status),
		Total:      &total,
		Timestamp:  time.Now(),
	})
}

func (n *HubNotifier) NotifySaleCancelled(sale *models.Sale) {
	if n.hub.ClientCount() == 0 || sale.IsTraining {
		return
	}
	n.hub.Broadcast(&DashboardEvent{
		Event:      EventSaleCancelled,
		BranchID:   sale.BranchID,
		SaleNumber: sale.SaleNumber,
		Status:     string(models.SaleCancelled),
		Timestamp:  time.Now(),
	})
}

func (n *HubNotifier) NotifyLabOrderStatusChanged(order *models.LabOrder) {
	if n.hub.ClientCount() == 0 || order.IsTraining {
		return
	}
	n.hub.Broadcast(&DashboardEvent{
		Event:       EventLabOrderStatusChanged,
		BranchID:    order.BranchID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		Timestamp:   time.Now(),
	})
}

func (n *HubNotifier) NotifyLowStock(branchID int, skuCode string, stock int) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&DashboardEvent{
		Event:     EventStockLow,
		BranchID:  branchID,
		SKUCode:   skuCode,
		Stock:     &stock,
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifySaleCreated(sale *models.Sale)                    {}
func (n *NopNotifier) NotifySaleCancelled(sale *models.Sale)                  {}
func (n *NopNotifier) NotifyLabOrderStatusChanged(order *models.LabOrder)     {}
func (n *NopNotifier) NotifyLowStock(branchID int, skuCode string, stock int) {}
