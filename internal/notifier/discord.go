package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-service/internal/models"
)

// DiscordNotifier forwards order notifications to a Discord webhook as
// an embed message. Delivery is one-shot: a failure is reported to the
// caller and never retried here.
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordNotifier creates a new Discord webhook notifier
func NewDiscordNotifier(webhookURL string, timeout time.Duration) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: strings.TrimSpace(webhookURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title     string       `json:"title"`
	Color     int          `json:"color"`
	Fields    []embedField `json:"fields"`
	Timestamp string       `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// Notify sends an order notification to the configured webhook.
func (n *DiscordNotifier) Notify(ctx context.Context, order *models.OrderNotification) error {
	if n.webhookURL == "" {
		return fmt.Errorf("discord webhook URL not configured")
	}

	payload := webhookPayload{Embeds: []embed{buildEmbed(order)}}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		resBody, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("webhook call failed: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(resBody)))
	}
	return nil
}

func buildEmbed(order *models.OrderNotification) embed {
	itemLines := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		itemLines = append(itemLines, fmt.Sprintf("• %s (x%d) - $%.2f", item.Name, item.Quantity, item.Price))
	}
	itemsValue := strings.Join(itemLines, "\n")
	if itemsValue == "" {
		itemsValue = "(none)"
	}

	e := embed{
		Title: "🛒 New Order Received!",
		Color: 0x00ff00,
		Fields: []embedField{
			{Name: "Order Number", Value: order.OrderNumber, Inline: true},
			{Name: "Customer Email", Value: order.CustomerEmail, Inline: true},
			{Name: "Total Amount", Value: fmt.Sprintf("$%.2f", order.Total), Inline: true},
			{Name: "Items Ordered", Value: itemsValue, Inline: false},
			{Name: "Session ID", Value: order.SessionID, Inline: false},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	e.Footer.Text = "Store Order System"
	return e
}
