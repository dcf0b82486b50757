package domain

import "time"

// Webhook represents a single (account, event) subscription. Events of the
// matching kind involving the account are delivered to URL via HTTP POST.
type Webhook struct {
	WebhookID string
	Account   string
	Event     string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
