// Package notify sends the admin a best-effort e-mail when an order is
// saved. Delivery goes through the Resend transactional e-mail API; when
// the API key or recipient is not configured, sending is skipped and only
// logged, so orders never depend on e-mail.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/model"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Resend API root.
const DefaultBaseURL = "https://api.resend.com"

const defaultFrom = "Storefront Orders <onboarding@resend.dev>"

// Mailer sends order notification e-mails to the shop admin.
type Mailer struct {
	BaseURL    string
	APIKey     string
	To         string
	From       string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewMailer creates a mailer. Empty apiKey or to disables sending.
func NewMailer(apiKey, to string, logger *zap.Logger) *Mailer {
	return &Mailer{
		BaseURL:    DefaultBaseURL,
		APIKey:     strings.TrimSpace(apiKey),
		To:         strings.TrimSpace(to),
		From:       defaultFrom,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// OrderReceived e-mails the admin about a new order. Returns nil when
// e-mail is not configured.
func (m *Mailer) OrderReceived(ctx context.Context, order *model.Order) error {
	if m.APIKey == "" || m.To == "" {
		if m.Logger != nil {
			m.Logger.Info("Email skip: RESEND_API_KEY or ADMIN_EMAIL not set",
				zap.String("order_id", order.ID))
		}
		return nil
	}

	customer := order.FullName
	if customer == "" {
		customer = "Customer"
	}

	payload, err := json.Marshal(emailRequest{
		From:    m.From,
		To:      []string{m.To},
		Subject: fmt.Sprintf("New order %s — %s", order.ID, customer),
		HTML:    renderOrderHTML(order),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email provider error: %d %s", resp.StatusCode, string(body))
	}

	if m.Logger != nil {
		m.Logger.Info("Admin notified by email", zap.String("order_id", order.ID))
	}
	return nil
}

func renderOrderHTML(order *model.Order) string {
	var items []string
	for _, item := range order.Items {
		name := item.Name
		if name == "" {
			name = "Item"
		}
		color := item.Color
		if color == "" {
			color = "-"
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		items = append(items, fmt.Sprintf("• %s — %s × %d = %d MAD", name, color, qty, item.Price*qty))
	}
	itemsText := strings.Join(items, "\n")
	if itemsText == "" {
		itemsText = "—"
	}

	date := order.Date
	if date == "" {
		date = time.Now().UTC().Format(time.RFC3339)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>New order: %s</h2>", esc(order.ID))
	fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s</p>", esc(orDash(order.FullName)))
	fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", esc(orDash(order.Phone)))
	fmt.Fprintf(&b, "<p><strong>City:</strong> %s</p>", esc(orDash(order.City)))
	if order.Notes != "" {
		fmt.Fprintf(&b, "<p><strong>Notes:</strong> %s</p>", esc(order.Notes))
	}
	fmt.Fprintf(&b, "<p><strong>Total:</strong> %d MAD</p>", order.Total)
	b.WriteString("<h3>Items</h3>")
	fmt.Fprintf(&b, "<pre>%s</pre>", esc(itemsText))
	fmt.Fprintf(&b, "<p><small>Date: %s</small></p>", esc(date))
	return b.String()
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
