package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mynotif/mynotif/internal/domain/prescription"
	"github.com/mynotif/mynotif/internal/platform/push"
)

// DefaultExpiringSoonDays is the lookahead window for the expiry campaign.
const DefaultExpiringSoonDays = 3

// CampaignName identifies the prescription-expiry push campaign.
const CampaignName = "PRESCRIPTION EXPIRE SOON"

var campaignContents = map[string]string{
	"fr": "Une ordonnance est sur le point d'expirer, ouvrez l'application pour la consulter.",
	"en": "A prescription is about to expire, open the app to review.",
}

// PrescriptionSource yields the prescriptions ending within the horizon.
type PrescriptionSource interface {
	ExpiringSoon(ctx context.Context, ref time.Time, horizon time.Duration) ([]*prescription.Prescription, error)
}

// CareTeamDirectory resolves a patient to the accounts of their nurses.
type CareTeamDirectory interface {
	AccountsForPatient(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error)
}

// DeviceDirectory resolves accounts to their push subscription ids.
type DeviceDirectory interface {
	SubscriptionIDsForAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]string, error)
}

// Ledger suppresses devices that were already notified recently. FilterNew
// returns the ids outside the suppression window and marks them notified.
type Ledger interface {
	FilterNew(ctx context.Context, ids []string) ([]string, error)
}

// Engine runs the prescription-expiry campaign: it selects prescriptions
// ending soon, fans out to the devices of every nurse caring for the
// affected patients, and dispatches a single batched push.
type Engine struct {
	prescriptions PrescriptionSource
	care          CareTeamDirectory
	devices       DeviceDirectory
	sender        push.Sender
	ledger        Ledger // nil disables suppression
	horizon       time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

// NewEngine creates a notification engine. A nil ledger disables the
// recently-notified suppression.
func NewEngine(prescriptions PrescriptionSource, care CareTeamDirectory, devices DeviceDirectory, sender push.Sender, ledger Ledger, logger zerolog.Logger) *Engine {
	return &Engine{
		prescriptions: prescriptions,
		care:          care,
		devices:       devices,
		sender:        sender,
		ledger:        ledger,
		horizon:       DefaultExpiringSoonDays * 24 * time.Hour,
		now:           time.Now,
		log:           logger,
	}
}

// SetHorizon overrides the default lookahead window.
func (e *Engine) SetHorizon(h time.Duration) {
	if h > 0 {
		e.horizon = h
	}
}

// Run executes the campaign once. A run with no expiring prescriptions or
// no reachable devices dispatches nothing and returns nil.
func (e *Engine) Run(ctx context.Context) error {
	ref := e.now()

	expiring, err := e.prescriptions.ExpiringSoon(ctx, ref, e.horizon)
	if err != nil {
		return err
	}
	if len(expiring) == 0 {
		e.log.Info().Msg("no prescriptions expiring soon, nothing to send")
		return nil
	}

	patientIDs := make([]uuid.UUID, 0, len(expiring))
	seenPatients := make(map[uuid.UUID]struct{}, len(expiring))
	for _, p := range expiring {
		if _, ok := seenPatients[p.PatientID]; ok {
			continue
		}
		seenPatients[p.PatientID] = struct{}{}
		patientIDs = append(patientIDs, p.PatientID)
	}

	var accountIDs []uuid.UUID
	seenAccounts := make(map[uuid.UUID]struct{})
	for _, patientID := range patientIDs {
		accounts, err := e.care.AccountsForPatient(ctx, patientID)
		if err != nil {
			return err
		}
		for _, id := range accounts {
			if _, ok := seenAccounts[id]; ok {
				continue
			}
			seenAccounts[id] = struct{}{}
			accountIDs = append(accountIDs, id)
		}
	}

	subscriptionIDs, err := e.devices.SubscriptionIDsForAccounts(ctx, accountIDs)
	if err != nil {
		return err
	}
	if e.ledger != nil {
		subscriptionIDs, err = e.ledger.FilterNew(ctx, subscriptionIDs)
		if err != nil {
			return err
		}
	}
	if len(subscriptionIDs) == 0 {
		e.log.Info().
			Int("prescriptions", len(expiring)).
			Msg("no registered devices to notify")
		return nil
	}

	if err := e.sender.Send(ctx, push.Notification{
		Contents:               campaignContents,
		IncludeSubscriptionIDs: subscriptionIDs,
		Name:                   CampaignName,
	}); err != nil {
		return err
	}

	e.log.Info().
		Int("prescriptions", len(expiring)).
		Int("devices", len(subscriptionIDs)).
		Msg("expiry notification dispatched")
	return nil
}
