package sse

import "time"

// CatalogNotifier is the interface services use to emit catalog events.
type CatalogNotifier interface {
	NotifyCatalogRefreshed(productCount int, categories []string)
	NotifyCatalogRefreshFailed(err error)
}

// HubNotifier implements CatalogNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyCatalogRefreshed(productCount int, categories []string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&CatalogEvent{
		Event:        EventCatalogRefreshed,
		ProductCount: productCount,
		Categories:   categories,
		Timestamp:    time.Now(),
	})
}

func (n *HubNotifier) NotifyCatalogRefreshFailed(err error) {
	if n.hub.ClientCount() == 0 || err == nil {
		return
	}
	n.hub.Broadcast(&CatalogEvent{
		Event:        EventCatalogRefreshError,
		FailedReason: err.Error(),
		Timestamp:    time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyCatalogRefreshed(productCount int, categories []string) {}
func (n *NopNotifier) NotifyCatalogRefreshFailed(err error)                         {}
