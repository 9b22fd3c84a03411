package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"storefront-service/internal/geo"
	"storefront-service/internal/invkey"
	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/internal/syncer"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminHandler serves the dashboard API: login, document saves, explicit
// sync actions, map link parsing and the inventory overview. Every save
// triggers a synchronous push; the push result rides along in the response
// so the dashboard can tell the admin whether the change is live.
type AdminHandler struct {
	Store  *store.Store
	JWT    *jwtutil.JWTUtil
	Engine *syncer.Engine
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(st *store.Store, jwtUtil *jwtutil.JWTUtil, engine *syncer.Engine) *AdminHandler {
	return &AdminHandler{Store: st, JWT: jwtUtil, Engine: engine}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	admin := h.Store.Admin()
	expected := "admin123"
	if admin.PasswordHash != "" {
		if decoded, err := base64.StdEncoding.DecodeString(admin.PasswordHash); err == nil {
			expected = string(decoded)
		}
	}
	if req.Password != expected {
		log.Warn("Admin login rejected")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Incorrect password"})
	}

	token, err := h.JWT.GenerateToken("admin")
	if err != nil {
		log.Error("Failed to issue admin token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create session"})
	}
	log.Info("Admin logged in")
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// save persists through fn and pushes the updated snapshot. The push result
// is reported, not enforced: a failed push leaves the local save in place.
func (h *AdminHandler) save(c echo.Context, fn func() bool) error {
	log := logger.FromEcho(c)
	if !fn() {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save"})
	}

	synced := true
	var syncError string
	if err := h.Engine.Push(c.Request().Context()); err != nil {
		synced = false
		syncError = err.Error()
		log.Warn("Push after save failed", zap.Error(err))
	}

	resp := echo.Map{"success": true, "synced": synced}
	if syncError != "" {
		resp["syncError"] = syncError
	}
	return c.JSON(http.StatusOK, resp)
}

// SaveProducts handles PUT /api/admin/products
func (h *AdminHandler) SaveProducts(c echo.Context) error {
	var products []model.Product
	if err := c.Bind(&products); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return h.save(c, func() bool { return h.Store.SetProducts(products) })
}

// contentAbout is the subset of the content document validated on save.
type contentAbout struct {
	About *struct {
		MapLat  *json.Number `json:"mapLat"`
		MapLng  *json.Number `json:"mapLng"`
		MapZoom *json.Number `json:"mapZoom"`
	} `json:"about"`
}

// SaveContent handles PUT /api/admin/content
func (h *AdminHandler) SaveContent(c echo.Context) error {
	var raw json.RawMessage
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if !strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Content must be a JSON object"})
	}

	// Map coordinates, when present, must be valid together.
	var about contentAbout
	if err := json.Unmarshal(raw, &about); err == nil && about.About != nil {
		a := about.About
		if a.MapLat != nil || a.MapLng != nil || a.MapZoom != nil {
			if a.MapLat == nil || a.MapLng == nil || a.MapZoom == nil ||
				!geo.ValidateMapFields(a.MapLat.String(), a.MapLng.String(), a.MapZoom.String()) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid coordinates or zoom."})
			}
		}
	}

	return h.save(c, func() bool { return h.Store.SetContent(raw) })
}

// SaveDesign handles PUT /api/admin/design
func (h *AdminHandler) SaveDesign(c echo.Context) error {
	var design model.Design
	if err := c.Bind(&design); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return h.save(c, func() bool { return h.Store.SetDesign(design) })
}

// SaveFloatingContact handles PUT /api/admin/floating-contact
func (h *AdminHandler) SaveFloatingContact(c echo.Context) error {
	var fc model.FloatingContact
	if err := c.Bind(&fc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return h.save(c, func() bool { return h.Store.SetFloatingContact(fc) })
}

// SaveSizes handles PUT /api/admin/sizes
func (h *AdminHandler) SaveSizes(c echo.Context) error {
	var sizes []model.Size
	if err := c.Bind(&sizes); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return h.save(c, func() bool { return h.Store.SetSizes(sizes) })
}

type addSizeRequest struct {
	Name string `json:"name"`
}

// AddSize handles POST /api/admin/sizes
func (h *AdminHandler) AddSize(c echo.Context) error {
	var req addSizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	size, ok := h.Store.AddSize(req.Name)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Size name is required"})
	}
	logger.FromEcho(c).Info("Size added", zap.String("size_id", size.ID), zap.String("name", size.Name))

	synced := true
	if err := h.Engine.Push(c.Request().Context()); err != nil {
		synced = false
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "size": size, "synced": synced})
}

type settingsRequest struct {
	OrdersAPIURL   *string `json:"ordersApiUrl"`
	WhatsappNumber *string `json:"whatsappNumber"`
	Password       *string `json:"password"`
}

// SaveSettings handles PUT /api/admin/settings
func (h *AdminHandler) SaveSettings(c echo.Context) error {
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return h.save(c, func() bool {
		ok := true
		if req.OrdersAPIURL != nil {
			ok = h.Store.SetOrdersAPIURL(*req.OrdersAPIURL) && ok
		}
		if req.WhatsappNumber != nil {
			ok = h.Store.SetWhatsappNumber(*req.WhatsappNumber) && ok
		}
		if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
			admin := h.Store.Admin()
			admin.PasswordHash = base64.StdEncoding.EncodeToString([]byte(*req.Password))
			ok = h.Store.SetAdmin(admin) && ok
		}
		return ok
	})
}

// Orders handles GET /api/admin/orders
func (h *AdminHandler) Orders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Orders())
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req orderStatusRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Status is required"})
	}

	if h.Store.OrderByID(id) == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
	}
	log.Info("Order status updated", zap.String("order_id", id), zap.String("status", req.Status))
	return h.save(c, func() bool { return h.Store.SetOrderStatus(id, strings.TrimSpace(req.Status)) })
}

// Sync handles POST /api/admin/sync
func (h *AdminHandler) Sync(c echo.Context) error {
	log := logger.FromEcho(c)
	if err := h.Engine.Push(c.Request().Context()); err != nil {
		log.Error("Manual sync failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Refresh handles POST /api/admin/refresh
func (h *AdminHandler) Refresh(c echo.Context) error {
	h.Engine.RefreshNow()
	return c.JSON(http.StatusAccepted, echo.Map{"success": true})
}

type mapParseRequest struct {
	URL  string `json:"url"`
	Lat  string `json:"lat"`
	Lng  string `json:"lng"`
	Zoom string `json:"zoom"`
}

// ParseMap handles POST /api/admin/map/parse: either a share link to parse
// or manually entered fields to validate.
func (h *AdminHandler) ParseMap(c echo.Context) error {
	var req mapParseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if strings.TrimSpace(req.URL) != "" {
		point := geo.ParseMapsURL(req.URL)
		if point == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid coordinates or zoom."})
		}
		return c.JSON(http.StatusOK, point)
	}

	if !geo.ValidateMapFields(req.Lat, req.Lng, req.Zoom) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid coordinates or zoom."})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}

// inventoryRow is one color/size line of the inventory overview.
type inventoryRow struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Key         string `json:"key"`
	Color       string `json:"color"`
	Size        string `json:"size,omitempty"`
	SizeName    string `json:"sizeName,omitempty"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
}

type inventoryAlert struct {
	Type     string `json:"type"` // danger | warning
	Product  string `json:"product"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// Inventory handles GET /api/admin/inventory
func (h *AdminHandler) Inventory(c echo.Context) error {
	var rows []inventoryRow
	var alerts []inventoryAlert

	for _, p := range h.Store.Products() {
		for key, qty := range p.Inventory {
			k := invkey.Parse(key)
			status := "in-stock"
			switch {
			case qty == 0:
				status = "out-of-stock"
				alerts = append(alerts, inventoryAlert{Type: "danger", Product: p.Name, Color: k.Color, Quantity: qty})
			case qty <= store.LowStockThreshold:
				status = "low-stock"
				alerts = append(alerts, inventoryAlert{Type: "warning", Product: p.Name, Color: k.Color, Quantity: qty})
			}
			row := inventoryRow{
				ProductID:   p.ID,
				ProductName: p.Name,
				Key:         key,
				Color:       k.Color,
				Size:        k.Size,
				Quantity:    qty,
				Status:      status,
			}
			if k.Size != "" {
				row.SizeName = h.Store.SizeName(k.Size)
			}
			rows = append(rows, row)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"threshold": store.LowStockThreshold,
		"rows":      rows,
		"alerts":    alerts,
	})
}
