package handler

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/model"
	"storefront-service/internal/store"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/orderclient"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var phoneRe = regexp.MustCompile(`^[0-9+\s-]+$`)

// CheckoutHandler turns a validated cart into a saved order and a pre-filled
// WhatsApp conversation link. When an external orders API is configured the
// order is also forwarded there, best-effort.
type CheckoutHandler struct {
	Store  *store.Store
	Orders *orderclient.Client
	now    func() time.Time
}

// NewCheckoutHandler creates the checkout handler.
func NewCheckoutHandler(st *store.Store, orders *orderclient.Client) *CheckoutHandler {
	return &CheckoutHandler{Store: st, Orders: orders, now: time.Now}
}

type checkoutRequest struct {
	FullName string           `json:"fullName"`
	Phone    string           `json:"phone"`
	City     string           `json:"city"`
	Notes    string           `json:"notes"`
	Items    []model.CartItem `json:"items"`
	Total    int              `json:"total"`
}

// Submit handles POST /api/checkout
func (h *CheckoutHandler) Submit(c echo.Context) error {
	log := logger.FromEcho(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid checkout body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.City = strings.TrimSpace(req.City)

	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Please enter your full name"})
	}
	if req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Please enter your phone number"})
	}
	if !phoneRe.MatchString(req.Phone) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Please enter a valid phone number"})
	}
	if req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Please enter your city"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Your cart is empty. Please add products before checkout."})
	}

	// The conversation link is the delivery channel; without a number the
	// order cannot reach the shop, so nothing is saved.
	number := h.Store.WhatsappNumber()
	if number == "" {
		log.Warn("Checkout rejected: WhatsApp number not configured")
		return c.JSON(http.StatusConflict, echo.Map{
			"success": false,
			"error":   "WhatsApp number is not set. Please ask the store owner to set it in the Admin Dashboard.",
		})
	}

	items := h.normalizeItems(req.Items)
	total := req.Total
	if total == 0 {
		for _, item := range items {
			total += item.Price * item.Quantity
		}
	}

	order := model.Order{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		Notes:    req.Notes,
		Items:    items,
		Total:    total,
		Date:     h.now().UTC().Format(time.RFC3339),
	}

	id := h.Store.AddOrder(order)
	order.ID = id
	order.Status = model.OrderStatusPending
	prometheus.RecordOrderReceived("checkout")
	log.Info("Checkout order saved",
		zap.String("order_id", id),
		zap.Int("items", len(items)),
		zap.Int("total", total))

	// Forward to the external orders API when configured. Failure is
	// non-fatal: the order is already saved locally and the WhatsApp link
	// still goes out.
	forwarded := false
	if apiBase := h.Store.OrdersAPIURL(); apiBase != "" {
		result, err := h.Orders.Submit(c.Request().Context(), apiBase, &order)
		switch {
		case err != nil:
			log.Warn("Order forward failed", zap.String("order_id", id), zap.Error(err))
		case !result.Success:
			log.Warn("Order forward rejected",
				zap.String("order_id", id),
				zap.String("error", result.Error))
		default:
			forwarded = true
			log.Info("Order forwarded", zap.String("order_id", id), zap.String("remote_id", result.ID))
		}
	}

	message := buildOrderMessage(&order)
	waURL := "https://wa.me/" + number + "?text=" + encodeMessage(message)

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"id":          id,
		"whatsappUrl": waURL,
		"forwarded":   forwarded,
	})
}

// normalizeItems fills derived cart line fields the client may omit: the
// line ID and the size display name.
func (h *CheckoutHandler) normalizeItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = model.CartItemID(item.ProductID, item.Color, item.Size)
		}
		if item.SizeName == "" && item.Size != "" {
			item.SizeName = h.Store.SizeName(item.Size)
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		out[i] = item
	}
	return out
}

// buildOrderMessage renders the pre-filled WhatsApp message for an order.
func buildOrderMessage(order *model.Order) string {
	lines := []string{
		"*New order*",
		"Name: " + order.FullName,
		"Phone: " + order.Phone,
		"City: " + order.City,
	}
	if order.Notes != "" {
		lines = append(lines, "Notes: "+order.Notes)
	}
	lines = append(lines, "Items:", formatOrderItems(order.Items))
	lines = append(lines, "Total: "+strconv.Itoa(order.Total)+" MAD")
	return strings.Join(lines, "\n")
}

func formatOrderItems(items []model.CartItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		color := item.Color
		if color == "" {
			color = "—"
		}
		line := item.Name + " - Color: " + color
		if item.SizeName != "" || item.Size != "" {
			size := item.SizeName
			if size == "" {
				size = item.Size
			}
			line += ", Size: " + size
		}
		line += ", Quantity: " + strconv.Itoa(item.Quantity) +
			", Price: " + strconv.Itoa(item.Price*item.Quantity) + " MAD"
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// encodeMessage percent-encodes the message for a wa.me text parameter.
// Spaces must be %20, not +; WhatsApp renders + literally.
func encodeMessage(msg string) string {
	return strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
}
