package store

import (
	"errors"
	"testing"
	"time"

	"github.com/efreitasn/minidex/internal/domain"
)

func newTestWebhook(id, account, event string) *domain.Webhook {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Webhook{
		WebhookID: id,
		Account:   account,
		Event:     event,
		URL:       "https://example.com/hook",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWebhookStore_Upsert_CreatesNew(t *testing.T) {
	s := NewWebhookStore()

	created := s.Upsert(newTestWebhook("w1", "u1", domain.EventOrderFilled))
	if !created {
		t.Fatal("Upsert() = false for new subscription, want true")
	}

	got := s.GetByAccountEvent("u1", domain.EventOrderFilled)
	if got == nil || got.WebhookID != "w1" {
		t.Errorf("GetByAccountEvent() = %+v, want webhook w1", got)
	}
}

func TestWebhookStore_Upsert_UpdatesExisting(t *testing.T) {
	s := NewWebhookStore()

	s.Upsert(newTestWebhook("w1", "u1", domain.EventDeposit))

	updated := newTestWebhook("w2", "u1", domain.EventDeposit)
	updated.URL = "https://example.com/other"
	created := s.Upsert(updated)
	if created {
		t.Fatal("Upsert() = true for existing (account, event), want false")
	}

	got := s.GetByAccountEvent("u1", domain.EventDeposit)
	if got.WebhookID != "w1" {
		t.Errorf("webhook_id changed on upsert: got %s, want w1", got.WebhookID)
	}
	if got.URL != "https://example.com/other" {
		t.Errorf("URL = %s, want updated URL", got.URL)
	}
}

func TestWebhookStore_Get_NotFound(t *testing.T) {
	s := NewWebhookStore()

	_, err := s.Get("missing")
	if !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("Get() error = %v, want ErrWebhookNotFound", err)
	}
}

func TestWebhookStore_ListByAccount(t *testing.T) {
	s := NewWebhookStore()

	s.Upsert(newTestWebhook("w1", "u1", domain.EventDeposit))
	s.Upsert(newTestWebhook("w2", "u1", domain.EventWithdraw))
	s.Upsert(newTestWebhook("w3", "u2", domain.EventDeposit))

	if got := s.ListByAccount("u1"); len(got) != 2 {
		t.Errorf("ListByAccount(u1) len = %d, want 2", len(got))
	}
	if got := s.ListByAccount("ghost"); got == nil || len(got) != 0 {
		t.Errorf("ListByAccount(ghost) = %v, want empty non-nil slice", got)
	}
}

func TestWebhookStore_Delete(t *testing.T) {
	s := NewWebhookStore()

	s.Upsert(newTestWebhook("w1", "u1", domain.EventDeposit))

	if err := s.Delete("w1"); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if got := s.GetByAccountEvent("u1", domain.EventDeposit); got != nil {
		t.Errorf("subscription still resolvable after delete: %+v", got)
	}
	if err := s.Delete("w1"); !errors.Is(err, domain.ErrWebhookNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrWebhookNotFound", err)
	}
}
