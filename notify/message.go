// Package notify delivers transactional email through a retrying outbox.
package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Adi-Narayan/Hashira/models"
)

type Kind string

const (
	KindWelcome           Kind = "welcome"
	KindOrderConfirmation Kind = "order_confirmation"
	KindOrderStatus       Kind = "order_status"
	KindPasswordReset     Kind = "password_reset"
)

type Message struct {
	Kind    Kind   `json:"kind"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Envelope is a queued message together with its delivery bookkeeping.
type Envelope struct {
	ID         string    `json:"id"`
	Message    Message   `json:"message"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	LastError  string    `json:"lastError,omitempty"`
}

var statusLines = map[string]string{
	models.OrderStatusPlaced:         "Your order has been placed successfully!",
	models.OrderStatusPacking:        "Your order is being packed with care.",
	models.OrderStatusShipped:        "Your order is on its way!",
	models.OrderStatusOutForDelivery: "Your order will be delivered soon!",
	models.OrderStatusDelivered:      "Your order has been delivered!",
}

func WelcomeMessage(to, name, frontendURL string) Message {
	body := fmt.Sprintf(
		"<h1>Welcome to Hashira!</h1><p>Hi %s,</p><p>Thank you for joining Hashira.</p><p><a href=\"%s\">Start shopping</a></p>",
		html.EscapeString(name), html.EscapeString(frontendURL),
	)
	return Message{Kind: KindWelcome, To: to, Subject: "Welcome to Hashira!", Body: body}
}

func OrderConfirmationMessage(to string, order *models.Order) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Order Confirmed</h1><p>Order #%s</p><ul>", html.EscapeString(order.ID))
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s (%s) x %d - %.2f</li>",
			html.EscapeString(item.Name), html.EscapeString(item.Size), item.Quantity, item.Price)
	}
	fmt.Fprintf(&b, "</ul><p>Total: %.2f</p><p>Payment: %s</p>", order.Amount, html.EscapeString(order.PaymentMethod))
	a := order.Address
	fmt.Fprintf(&b, "<p>%s<br>%s<br>%s, %s<br>%s<br>Phone: %s</p>",
		html.EscapeString(a.FullName()), html.EscapeString(a.Street), html.EscapeString(a.City),
		html.EscapeString(a.State), html.EscapeString(a.Zipcode), html.EscapeString(a.Phone))
	return Message{
		Kind:    KindOrderConfirmation,
		To:      to,
		Subject: "Order Confirmation - #" + order.ID,
		Body:    b.String(),
	}
}

func OrderStatusMessage(to string, order *models.Order) Message {
	line, ok := statusLines[order.Status]
	if !ok {
		line = statusLines[models.OrderStatusPlaced]
	}
	footer := "You can track your order anytime from your account dashboard."
	if order.Status == models.OrderStatusDelivered {
		footer = "We hope you enjoy your purchase! Please let us know if you have any feedback."
	}
	body := fmt.Sprintf("<h1>%s</h1><p>Order #%s</p><p>Status: %s</p><p>%s</p>",
		html.EscapeString(line), html.EscapeString(order.ID), html.EscapeString(order.Status), footer)
	return Message{
		Kind:    KindOrderStatus,
		To:      to,
		Subject: "Order Status Update - " + headerText(order.Status),
		Body:    body,
	}
}

func PasswordResetMessage(to, token, frontendURL string) Message {
	link := strings.TrimSuffix(frontendURL, "/") + "/reset-password?token=" + token
	body := fmt.Sprintf(
		"<p>We received a request to reset your Hashira password.</p><p><a href=\"%s\">Reset password</a></p><p>This link expires in 15 minutes. Ignore this email if you did not ask for it.</p>",
		html.EscapeString(link),
	)
	return Message{Kind: KindPasswordReset, To: to, Subject: "Reset your Hashira password", Body: body}
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerText flattens free text so it cannot start a new mail header.
func headerText(s string) string {
	return strings.TrimSpace(headerBreaks.Replace(s))
}
