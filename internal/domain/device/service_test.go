package device

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	byAccount map[uuid.UUID]*Subscription
}

func newMockRepo() *mockRepo {
	return &mockRepo{byAccount: make(map[uuid.UUID]*Subscription)}
}

func (m *mockRepo) Upsert(_ context.Context, sub *Subscription) error {
	if existing, ok := m.byAccount[sub.AccountID]; ok {
		existing.SubscriptionID = sub.SubscriptionID
		sub.ID = existing.ID
		return nil
	}
	sub.ID = uuid.New()
	m.byAccount[sub.AccountID] = sub
	return nil
}

func (m *mockRepo) GetByAccount(_ context.Context, accountID uuid.UUID) (*Subscription, error) {
	sub, ok := m.byAccount[accountID]
	if !ok {
		return nil, errors.New("not found")
	}
	return sub, nil
}

func (m *mockRepo) DeleteByAccount(_ context.Context, accountID uuid.UUID) error {
	delete(m.byAccount, accountID)
	return nil
}

func (m *mockRepo) ListByAccounts(_ context.Context, accountIDs []uuid.UUID) ([]*Subscription, error) {
	var subs []*Subscription
	for _, id := range accountIDs {
		if sub, ok := m.byAccount[id]; ok {
			subs = append(subs, sub)
		}
	}
	return subs, nil
}

func TestRegister_ReplacesPrevious(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	accountID := uuid.New()

	first, err := svc.Register(ctx, accountID, "player-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := svc.Register(ctx, accountID, "player-2")
	if err != nil {
		t.Fatalf("Register replace: %v", err)
	}
	if second.ID != first.ID {
		t.Error("expected replacement to keep the subscription row")
	}

	got, err := svc.Get(ctx, accountID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SubscriptionID != "player-2" {
		t.Errorf("expected player-2, got %s", got.SubscriptionID)
	}
}

func TestRegister_RequiresSubscriptionID(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), uuid.New(), "  "); err == nil {
		t.Error("expected error for blank subscription id")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUnregister(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	accountID := uuid.New()

	svc.Register(ctx, accountID, "player-1")
	if err := svc.Unregister(ctx, accountID); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if _, err := svc.Get(ctx, accountID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after unregister, got %v", err)
	}

	// Unregistering again is a no-op.
	if err := svc.Unregister(ctx, accountID); err != nil {
		t.Errorf("expected no-op unregister, got %v", err)
	}
}

func TestSubscriptionIDsForAccounts_Dedup(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	svc.Register(ctx, a, "123")
	svc.Register(ctx, b, "456")
	svc.Register(ctx, c, "123") // shared device

	ids, err := svc.SubscriptionIDsForAccounts(ctx, []uuid.UUID{a, b, c, uuid.New()})
	if err != nil {
		t.Fatalf("SubscriptionIDsForAccounts: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 deduplicated ids, got %d: %v", len(ids), ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["123"] || !seen["456"] {
		t.Errorf("expected ids 123 and 456, got %v", ids)
	}
}
