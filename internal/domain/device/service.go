package device

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the account has no registered device.
var ErrNotFound = errors.New("device subscription not found")

// Service manages device subscription registration for push delivery.
type Service struct {
	repo Repository
}

// NewService creates a new device subscription service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register records the account's push subscription id, replacing any
// previously registered one.
func (s *Service) Register(ctx context.Context, accountID uuid.UUID, subscriptionID string) (*Subscription, error) {
	subscriptionID = strings.TrimSpace(subscriptionID)
	if subscriptionID == "" {
		return nil, errors.New("subscription id is required")
	}
	sub := &Subscription{AccountID: accountID, SubscriptionID: subscriptionID}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get returns the account's registered subscription.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, ErrNotFound
	}
	return sub, nil
}

// Unregister removes the account's subscription. Removing an account with
// no subscription is a no-op.
func (s *Service) Unregister(ctx context.Context, accountID uuid.UUID) error {
	return s.repo.DeleteByAccount(ctx, accountID)
}

// SubscriptionIDsForAccounts resolves the given accounts to their push
// subscription ids, deduplicated. Accounts without a device are skipped.
func (s *Service) SubscriptionIDsForAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]string, error) {
	subs, err := s.repo.ListByAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(subs))
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.SubscriptionID == "" {
			continue
		}
		if _, ok := seen[sub.SubscriptionID]; ok {
			continue
		}
		seen[sub.SubscriptionID] = struct{}{}
		ids = append(ids, sub.SubscriptionID)
	}
	return ids, nil
}
