// Package store is the local data layer: a file-backed key-value store of
// the storefront's named documents with typed accessors and default-value
// fallback. It is the single source of truth for products, orders, content
// and design on this device; the sync engine reconciles it against the
// remote document.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/model"

	"go.uber.org/zap"
)

// Document keys. Each key persists as <key>.json under the data directory.
const (
	docProducts        = "products"
	docOrders          = "orders"
	docContent         = "content"
	docDesign          = "design"
	docAdmin           = "admin"
	docFloatingContact = "floating-contact"
	docSizes           = "sizes"
	docOrdersAPIURL    = "orders-api-url"
	docWhatsappNumber  = "whatsapp-number"
)

// LowStockThreshold is the quantity at or below which the admin inventory
// view flags a warning.
const LowStockThreshold = 5

const maxSizeIDLength = 30

// Store persists the storefront documents. Reads never fail: a missing or
// malformed document yields its named default. Writes report success with a
// boolean; on a failed write the in-memory value still serves the rest of
// the process lifetime.
type Store struct {
	dir string
	log *zap.Logger
	now func() time.Time

	// docMu serializes read-modify-write mutations (order prepend, size
	// append, remote merge) so concurrent handlers cannot lose updates.
	// mu only guards the byte cache.
	docMu sync.Mutex
	mu    sync.RWMutex
	cache map[string][]byte
}

// New creates a store rooted at dir and seeds missing documents with their
// defaults. A directory that cannot be created degrades to memory-only
// operation.
func New(dir string, log *zap.Logger) *Store {
	s := &Store{
		dir:   dir,
		log:   log,
		now:   time.Now,
		cache: make(map[string][]byte),
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("Store directory unavailable, running memory-only",
			zap.String("dir", dir), zap.Error(err))
	}
	s.ensureDefaults()
	return s
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) raw(key string) []byte {
	s.mu.RLock()
	b, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return b
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil
	}
	s.mu.Lock()
	s.cache[key] = b
	s.mu.Unlock()
	return b
}

// get decodes the document into out. Returns false when the document is
// absent or malformed; callers fall back to the default.
func (s *Store) get(key string, out interface{}) bool {
	b := s.raw(key)
	if len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.log.Warn("Malformed stored document, using default",
			zap.String("document", key), zap.Error(err))
		return false
	}
	return true
}

// set serializes and persists the document. The in-memory cache is updated
// even when the disk write fails.
func (s *Store) set(key string, v interface{}) bool {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Error("Failed to serialize document",
			zap.String("document", key), zap.Error(err))
		return false
	}
	s.mu.Lock()
	s.cache[key] = b
	s.mu.Unlock()

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		s.log.Warn("Failed to persist document, keeping in memory",
			zap.String("document", key), zap.Error(err))
		return false
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		s.log.Warn("Failed to persist document, keeping in memory",
			zap.String("document", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) ensureDefaults() {
	if s.raw(docProducts) == nil {
		s.set(docProducts, DefaultProducts())
	}
	if s.raw(docOrders) == nil {
		s.set(docOrders, []model.Order{})
	}
	if s.raw(docContent) == nil {
		s.set(docContent, DefaultContent())
	}
	if s.raw(docDesign) == nil {
		s.set(docDesign, DefaultDesign())
	}
	if s.raw(docAdmin) == nil {
		s.set(docAdmin, DefaultAdmin())
	}
	if s.raw(docFloatingContact) == nil {
		s.set(docFloatingContact, DefaultFloatingContact())
	}
	if s.raw(docSizes) == nil {
		s.set(docSizes, DefaultSizes())
	}
}

// Products returns the catalog, or the default seed catalog.
func (s *Store) Products() []model.Product {
	var v []model.Product
	if !s.get(docProducts, &v) {
		return DefaultProducts()
	}
	return v
}

// SetProducts replaces the catalog.
func (s *Store) SetProducts(list []model.Product) bool {
	return s.set(docProducts, list)
}

// Orders returns the order list, most recent first.
func (s *Store) Orders() []model.Order {
	var v []model.Order
	if !s.get(docOrders, &v) {
		return []model.Order{}
	}
	return v
}

// SetOrders replaces the order list.
func (s *Store) SetOrders(list []model.Order) bool {
	return s.set(docOrders, list)
}

// Content returns the content document as an opaque JSON object.
func (s *Store) Content() json.RawMessage {
	var v json.RawMessage
	if !s.get(docContent, &v) || !isJSONObject(v) {
		return DefaultContent()
	}
	return v
}

// SetContent replaces the content document.
func (s *Store) SetContent(raw json.RawMessage) bool {
	return s.set(docContent, raw)
}

// Design returns the design document.
func (s *Store) Design() model.Design {
	var v model.Design
	if !s.get(docDesign, &v) {
		return DefaultDesign()
	}
	return v
}

// SetDesign replaces the design document.
func (s *Store) SetDesign(d model.Design) bool {
	return s.set(docDesign, d)
}

// Admin returns the local-only admin document.
func (s *Store) Admin() model.Admin {
	var v model.Admin
	if !s.get(docAdmin, &v) {
		return DefaultAdmin()
	}
	return v
}

// SetAdmin replaces the admin document.
func (s *Store) SetAdmin(a model.Admin) bool {
	return s.set(docAdmin, a)
}

// FloatingContact returns the floating contact configuration.
func (s *Store) FloatingContact() model.FloatingContact {
	var v model.FloatingContact
	if !s.get(docFloatingContact, &v) {
		return DefaultFloatingContact()
	}
	return v
}

// SetFloatingContact replaces the floating contact configuration.
func (s *Store) SetFloatingContact(fc model.FloatingContact) bool {
	return s.set(docFloatingContact, fc)
}

// Sizes returns the size catalog.
func (s *Store) Sizes() []model.Size {
	var v []model.Size
	if !s.get(docSizes, &v) {
		return DefaultSizes()
	}
	return v
}

// SetSizes replaces the size catalog.
func (s *Store) SetSizes(list []model.Size) bool {
	if list == nil {
		list = []model.Size{}
	}
	return s.set(docSizes, list)
}

// SizeName resolves a size ID to its display name; falls back to the ID.
func (s *Store) SizeName(id string) string {
	for _, size := range s.Sizes() {
		if size.ID == id {
			return size.Name
		}
	}
	return id
}

// OrdersAPIURL returns the configured external orders API base URL, or "".
func (s *Store) OrdersAPIURL() string {
	var v string
	if !s.get(docOrdersAPIURL, &v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// SetOrdersAPIURL stores the external orders API base URL.
func (s *Store) SetOrdersAPIURL(u string) bool {
	return s.set(docOrdersAPIURL, strings.TrimSpace(u))
}

// WhatsappNumber returns the checkout WhatsApp number as digits only. Falls
// back to the legacy admin whatsapp field, then "".
func (s *Store) WhatsappNumber() string {
	var v string
	if s.get(docWhatsappNumber, &v) {
		if digits := digitsOnly(v); digits != "" {
			return digits
		}
	}
	if admin := s.Admin(); admin.Whatsapp != "" {
		return digitsOnly(admin.Whatsapp)
	}
	return ""
}

// SetWhatsappNumber stores the checkout WhatsApp number, stripped to digits.
func (s *Store) SetWhatsappNumber(num string) bool {
	return s.set(docWhatsappNumber, digitsOnly(num))
}

// VisibleProducts filters the catalog to visible products, orders them by
// the design productOrder when present (unlisted products follow in catalog
// order), then filters by exact category. An empty category or "All"
// disables category filtering.
func (s *Store) VisibleProducts(category string) []model.Product {
	var visible []model.Product
	for _, p := range s.Products() {
		if p.Visible {
			visible = append(visible, p)
		}
	}

	design := s.Design()
	list := visible
	if len(design.ProductOrder) > 0 {
		byID := make(map[string]model.Product, len(visible))
		for _, p := range visible {
			byID[p.ID] = p
		}
		placed := make(map[string]bool, len(design.ProductOrder))
		list = make([]model.Product, 0, len(visible))
		for _, id := range design.ProductOrder {
			if p, ok := byID[id]; ok && !placed[id] {
				list = append(list, p)
				placed[id] = true
			}
		}
		for _, p := range visible {
			if !placed[p.ID] {
				list = append(list, p)
			}
		}
	}

	if category == "" || category == "All" {
		return list
	}
	var filtered []model.Product
	for _, p := range list {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ProductByID returns the product with the given ID, or nil.
func (s *Store) ProductByID(id string) *model.Product {
	for _, p := range s.Products() {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// OrderByID returns the order with the given ID, or nil.
func (s *Store) OrderByID(id string) *model.Order {
	for _, o := range s.Orders() {
		if o.ID == id {
			return &o
		}
	}
	return nil
}

// AddOrder stamps the order with a fresh ID and pending status, prepends it
// to the order list and persists. Returns the assigned ID.
func (s *Store) AddOrder(order model.Order) string {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	order.ID = model.NewOrderID(s.now())
	order.Status = model.OrderStatusPending
	orders := append([]model.Order{order}, s.Orders()...)
	s.set(docOrders, orders)
	return order.ID
}

// SetOrderStatus updates the status of the order with the given ID in
// place. Returns false when no such order exists.
func (s *Store) SetOrderStatus(id, status string) bool {
	s.docMu.Lock()
	defer s.docMu.Unlock()

	orders := s.Orders()
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			s.set(docOrders, orders)
			return true
		}
	}
	return false
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9-]`)
)

// AddSize derives a slug ID from the size name and appends the size.
// A slug collision is disambiguated with a timestamp suffix. Returns false
// when the name is empty.
func (s *Store) AddSize(name string) (model.Size, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Size{}, false
	}

	s.docMu.Lock()
	defer s.docMu.Unlock()

	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	slug := nonSlugRe.ReplaceAllString(whitespaceRe.ReplaceAllString(strings.ToLower(name), "-"), "")
	if slug == "" {
		slug = "size-" + millis
	}
	if len(slug) > maxSizeIDLength {
		slug = slug[:maxSizeIDLength]
	}

	sizes := s.Sizes()
	for _, existing := range sizes {
		if existing.ID == slug {
			slug = slug + "-" + millis
			break
		}
	}

	size := model.Size{ID: slug, Name: name}
	sizes = append(sizes, size)
	s.set(docSizes, sizes)
	return size, true
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}
