package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"storefront-service/internal/model"
	"storefront-service/internal/notify"
	"storefront-service/pkg/contentstore"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var mobileUARe = regexp.MustCompile(`(?i)mobile|android|iphone|ipad|webos|blackberry`)

// deviceClass classifies the caller from its User-Agent for logging and the
// optional debug payload.
func deviceClass(userAgent string) string {
	if mobileUARe.MatchString(userAgent) {
		return "mobile"
	}
	return "desktop"
}

// OrderHandler is the order intake endpoint: it accepts orders from any
// storefront device and appends them to the shared document through a
// hash-conditional update.
type OrderHandler struct {
	Content      *contentstore.Client
	Mailer       *notify.Mailer
	DataPath     string
	PushAttempts int
	Debug        bool
	now          func() time.Time
}

// NewOrderHandler creates the order intake handler.
func NewOrderHandler(content *contentstore.Client, mailer *notify.Mailer, dataPath string, pushAttempts int, debug bool) *OrderHandler {
	return &OrderHandler{
		Content:      content,
		Mailer:       mailer,
		DataPath:     dataPath,
		PushAttempts: pushAttempts,
		Debug:        debug,
		now:          time.Now,
	}
}

// intakeOrder is the accepted order body plus the client-reported device
// field, which is logged and stripped before the order is saved.
type intakeOrder struct {
	model.Order
	DebugDevice string `json:"_debugDevice,omitempty"`
}

// MethodNotAllowed rejects non-POST verbs on the orders endpoint with a JSON
// body so storefront error handling stays uniform.
func (h *OrderHandler) MethodNotAllowed(c echo.Context) error {
	log := logger.FromEcho(c)
	log.Warn("Order rejected: method not allowed",
		zap.String("method", c.Request().Method),
		zap.String("device", deviceClass(c.Request().UserAgent())))
	return c.JSON(http.StatusMethodNotAllowed, echo.Map{
		"error":   "Method not allowed",
		"success": false,
	})
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	device := deviceClass(c.Request().UserAgent())

	// Strict Content-Type gate: clients must declare JSON
	contentType := strings.ToLower(strings.TrimSpace(c.Request().Header.Get("Content-Type")))
	if contentType != "application/json" && !strings.HasPrefix(contentType, "application/json;") {
		log.Warn("Order rejected: invalid Content-Type",
			zap.String("content_type", contentType),
			zap.String("device", device))
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{
			"error":   "Content-Type must be application/json",
			"success": false,
		})
	}

	log.Info("Order request received",
		zap.String("device", device),
		zap.String("user_agent", truncate(c.Request().UserAgent(), 80)))

	if !h.Content.Configured() {
		log.Error("Orders API not configured: missing GITHUB_TOKEN, GITHUB_OWNER or GITHUB_REPO")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Orders API not configured (missing env)",
			"success": false,
		})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Error("Failed to read order body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Invalid JSON body",
			"success": false,
		})
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		log.Warn("Order rejected: empty or non-object body", zap.String("device", device))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Request body must be a JSON object",
			"success": false,
		})
	}

	var order intakeOrder
	if err := json.Unmarshal(body, &order); err != nil {
		log.Warn("Order rejected: body parse error", zap.Error(err), zap.String("device", device))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Invalid JSON body",
			"success": false,
		})
	}

	// At least one contact field is required to make the order actionable.
	if order.FullName == "" && order.Phone == "" {
		log.Warn("Order rejected: missing fullName and phone", zap.String("device", device))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Order must include fullName and phone",
			"success": false,
		})
	}

	if order.ID == "" {
		order.ID = model.NewOrderID(h.now())
	}
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	log.Info("Order validated and accepted",
		zap.String("order_id", order.ID),
		zap.String("full_name", order.FullName),
		zap.String("device", device),
		zap.String("client_device", order.DebugDevice))

	if err := h.saveOrder(c, &order.Order); err != nil {
		prometheus.RecordOrderSaveFailure()
		log.Error("Failed to save order", zap.String("order_id", order.ID), zap.Error(err))
		payload := echo.Map{
			"error":   "Failed to process order",
			"detail":  err.Error(),
			"success": false,
		}
		if h.Debug {
			payload["_debug"] = echo.Map{"device": device}
		}
		return c.JSON(http.StatusInternalServerError, payload)
	}
	prometheus.RecordOrderReceived("api")
	log.Info("Order saved", zap.String("order_id", order.ID), zap.String("device", device))

	// Best-effort notification; the order is already saved.
	if err := h.Mailer.OrderReceived(c.Request().Context(), &order.Order); err != nil {
		prometheus.RecordEmailNotification("error")
		log.Error("Admin email failed (order already saved)", zap.Error(err))
	} else {
		prometheus.RecordEmailNotification("ok")
	}

	payload := echo.Map{
		"success": true,
		"ok":      true,
		"id":      order.ID,
	}
	if h.Debug {
		payload["_debug"] = echo.Map{"device": device, "clientDevice": order.DebugDevice}
	}
	return c.JSON(http.StatusOK, payload)
}

// saveOrder prepends the order to the shared document's orders array through
// a conditional read-modify-write. Top-level fields other than orders pass
// through untouched.
func (h *OrderHandler) saveOrder(c echo.Context, order *model.Order) error {
	return h.Content.UpdateJSON(c.Request().Context(), h.DataPath, h.PushAttempts, "Add order "+order.ID,
		func(current []byte) ([]byte, error) {
			doc := make(map[string]json.RawMessage)
			if len(current) > 0 {
				if err := json.Unmarshal(current, &doc); err != nil {
					return nil, errors.New("store document is not a JSON object")
				}
			}

			var orders []json.RawMessage
			if raw, ok := doc["orders"]; ok {
				// A malformed orders field is replaced rather than failing the save.
				_ = json.Unmarshal(raw, &orders)
			}

			encoded, err := json.Marshal(order)
			if err != nil {
				return nil, err
			}
			orders = append([]json.RawMessage{encoded}, orders...)

			ordersRaw, err := json.Marshal(orders)
			if err != nil {
				return nil, err
			}
			doc["orders"] = ordersRaw
			return json.MarshalIndent(doc, "", "  ")
		})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
