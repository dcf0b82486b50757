package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minidex/internal/domain"
	"github.com/efreitasn/minidex/internal/store"
)

// validWebhookEvents are the subscribable event kinds.
var validWebhookEvents = map[string]bool{
	domain.EventDeposit:        true,
	domain.EventWithdraw:       true,
	domain.EventOrderPlaced:    true,
	domain.EventOrderCancelled: true,
	domain.EventOrderFilled:    true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	Account string
	URL     string
	Events  []string
}

// WebhookService handles webhook subscriptions and event delivery.
type WebhookService struct {
	store  *store.WebhookStore
	client *http.Client
}

// NewWebhookService creates a WebhookService with the given delivery
// timeout.
func NewWebhookService(webhookStore *store.WebhookStore, timeout time.Duration) *WebhookService {
	return &WebhookService{
		store: webhookStore,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upsert validates the request and creates or updates one subscription per
// requested event. Returns the resulting webhooks and whether any new
// subscriptions were created.
func (s *WebhookService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !accountRegex.MatchString(req.Account) {
		return nil, false, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	deduped := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event + ". Must be one of: deposit, withdraw, order.placed, order.cancelled, order.filled",
			}
		}
		if !seen[event] {
			seen[event] = true
			deduped = append(deduped, event)
		}
	}

	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(deduped))

	for _, event := range deduped {
		w := &domain.Webhook{
			WebhookID: uuid.New().String(),
			Account:   req.Account,
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if s.store.Upsert(w) {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else if existing := s.store.GetByAccountEvent(req.Account, event); existing != nil {
			webhooks = append(webhooks, existing)
		}
	}

	return webhooks, anyCreated, nil
}

// List returns all subscriptions for an account.
func (s *WebhookService) List(account string) ([]*domain.Webhook, error) {
	if !accountRegex.MatchString(account) {
		return nil, &domain.ValidationError{
			Message: "account must match ^[a-zA-Z0-9:_-]{1,64}$",
		}
	}
	return s.store.ListByAccount(account), nil
}

// Delete removes a subscription by ID.
func (s *WebhookService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// eventPayload is the JSON body delivered to subscribers.
type eventPayload struct {
	Event     string       `json:"event"`
	Timestamp string       `json:"timestamp"`
	Data      domain.Event `json:"data"`
}

// Dispatch delivers the event to the account's subscription for its kind,
// if one exists. Fire-and-forget: delivery errors are silently ignored.
func (s *WebhookService) Dispatch(account string, ev domain.Event) {
	wh := s.store.GetByAccountEvent(account, ev.EventKind())
	if wh == nil {
		return
	}

	payload := eventPayload{
		Event:     ev.EventKind(),
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      ev,
	}
	go s.deliver(wh, ev.EventKind(), payload)
}

// deliver POSTs the payload to the subscription URL with delivery headers.
func (s *WebhookService) deliver(wh *domain.Webhook, eventType string, payload eventPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
