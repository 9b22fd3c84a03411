package store

import (
	"sort"
	"strings"

	"storefront-service/internal/model"
)

// MergeOrders merges a remote order list with the local one by ID: the
// remote version wins for shared IDs, local-only orders are kept so a
// just-placed order survives a pull that races its own push. The result is
// sorted most-recent-first; orders without a parseable date sort as oldest.
func MergeOrders(remote, local []model.Order) []model.Order {
	merged := make([]model.Order, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))
	for _, o := range remote {
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		merged = append(merged, o)
	}
	for _, o := range local {
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		merged = append(merged, o)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DateUnixMilli() > merged[j].DateUnixMilli()
	})
	return merged
}

// ApplyRemote copies a remote snapshot into the store. Every document the
// snapshot carries overwrites the local one, except orders, which are
// merged, and the admin document, which remote data never touches.
func (s *Store) ApplyRemote(snap *model.Snapshot) {
	if snap == nil {
		return
	}

	// The orders merge is a read-modify-write racing checkout handlers;
	// serialize it with the other document mutations.
	s.docMu.Lock()
	defer s.docMu.Unlock()
	if snap.Products != nil {
		s.SetProducts(*snap.Products)
	}
	if snap.Orders != nil {
		s.SetOrders(MergeOrders(*snap.Orders, s.Orders()))
	}
	if len(snap.Content) > 0 && isJSONObject(snap.Content) {
		s.SetContent(snap.Content)
	}
	if snap.Design != nil {
		s.SetDesign(*snap.Design)
	}
	if snap.FloatingContact != nil {
		s.SetFloatingContact(*snap.FloatingContact)
	}
	if snap.Sizes != nil {
		s.SetSizes(*snap.Sizes)
	}
	if u := strings.TrimSpace(snap.OrdersAPIURL); u != "" {
		s.SetOrdersAPIURL(u)
	}
	if digits := digitsOnly(snap.WhatsappNumber); digits != "" {
		s.SetWhatsappNumber(digits)
	}
}

// SyncPayload builds the snapshot pushed to the remote document: every
// document except admin and the sync credentials.
func (s *Store) SyncPayload() *model.Snapshot {
	products := s.Products()
	orders := s.Orders()
	design := s.Design()
	fc := s.FloatingContact()
	sizes := s.Sizes()
	return &model.Snapshot{
		Products:        &products,
		Orders:          &orders,
		Content:         s.Content(),
		Design:          &design,
		FloatingContact: &fc,
		Sizes:           &sizes,
		OrdersAPIURL:    s.OrdersAPIURL(),
		WhatsappNumber:  s.WhatsappNumber(),
	}
}
