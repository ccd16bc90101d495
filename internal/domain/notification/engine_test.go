package notification

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mynotif/mynotif/internal/domain/prescription"
	"github.com/mynotif/mynotif/internal/platform/push"
)

type stubSource struct {
	prescriptions []*prescription.Prescription
	err           error
}

func (s *stubSource) ExpiringSoon(_ context.Context, _ time.Time, _ time.Duration) ([]*prescription.Prescription, error) {
	return s.prescriptions, s.err
}

type stubCare struct {
	accounts map[uuid.UUID][]uuid.UUID
}

func (s *stubCare) AccountsForPatient(_ context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	return s.accounts[patientID], nil
}

type stubDevices struct {
	subs map[uuid.UUID]string
}

func (s *stubDevices) SubscriptionIDsForAccounts(_ context.Context, accountIDs []uuid.UUID) ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, accountID := range accountIDs {
		id, ok := s.subs[accountID]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

type memoryLedger struct {
	seen map[string]bool
}

func (l *memoryLedger) FilterNew(_ context.Context, ids []string) ([]string, error) {
	var fresh []string
	for _, id := range ids {
		if l.seen[id] {
			continue
		}
		l.seen[id] = true
		fresh = append(fresh, id)
	}
	return fresh, nil
}

func expiring(patientID uuid.UUID) *prescription.Prescription {
	return &prescription.Prescription{ID: uuid.New(), PatientID: patientID}
}

func TestRun_SingleBatchedDispatch(t *testing.T) {
	patientA, patientB := uuid.New(), uuid.New()
	nurse1, nurse2 := uuid.New(), uuid.New()

	source := &stubSource{prescriptions: []*prescription.Prescription{
		expiring(patientA), expiring(patientA), expiring(patientB),
	}}
	care := &stubCare{accounts: map[uuid.UUID][]uuid.UUID{
		patientA: {nurse1, nurse2},
		patientB: {nurse2},
	}}
	devices := &stubDevices{subs: map[uuid.UUID]string{
		nurse1: "123",
		nurse2: "456",
	}}
	sender := push.NewMockSender()

	engine := NewEngine(source, care, devices, sender, nil, zerolog.Nop())
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sender.SentCount() != 1 {
		t.Fatalf("expected a single batched dispatch, got %d", sender.SentCount())
	}
	sent := sender.Sent[0]
	if sent.Name != "PRESCRIPTION EXPIRE SOON" {
		t.Errorf("expected campaign name PRESCRIPTION EXPIRE SOON, got %q", sent.Name)
	}
	if sent.Contents["fr"] != "Une ordonnance est sur le point d'expirer, ouvrez l'application pour la consulter." {
		t.Errorf("unexpected fr content: %q", sent.Contents["fr"])
	}
	if sent.Contents["en"] != "A prescription is about to expire, open the app to review." {
		t.Errorf("unexpected en content: %q", sent.Contents["en"])
	}
	ids := append([]string(nil), sent.IncludeSubscriptionIDs...)
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "123" || ids[1] != "456" {
		t.Errorf("expected subscription ids [123 456], got %v", ids)
	}
}

func TestRun_NoExpiringPrescriptions(t *testing.T) {
	sender := push.NewMockSender()
	engine := NewEngine(&stubSource{}, &stubCare{}, &stubDevices{}, sender, nil, zerolog.Nop())

	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sender.SentCount() != 0 {
		t.Errorf("expected no dispatch, got %d", sender.SentCount())
	}
}

func TestRun_NoDevices(t *testing.T) {
	patientID := uuid.New()
	nurseAccount := uuid.New()

	source := &stubSource{prescriptions: []*prescription.Prescription{expiring(patientID)}}
	care := &stubCare{accounts: map[uuid.UUID][]uuid.UUID{patientID: {nurseAccount}}}
	sender := push.NewMockSender()

	engine := NewEngine(source, care, &stubDevices{}, sender, nil, zerolog.Nop())
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sender.SentCount() != 0 {
		t.Errorf("expected no dispatch without devices, got %d", sender.SentCount())
	}
}

func TestRun_UnlinkedPatientSkipped(t *testing.T) {
	linked, orphan := uuid.New(), uuid.New()
	nurseAccount := uuid.New()

	source := &stubSource{prescriptions: []*prescription.Prescription{
		expiring(linked), expiring(orphan),
	}}
	care := &stubCare{accounts: map[uuid.UUID][]uuid.UUID{linked: {nurseAccount}}}
	devices := &stubDevices{subs: map[uuid.UUID]string{nurseAccount: "123"}}
	sender := push.NewMockSender()

	engine := NewEngine(source, care, devices, sender, nil, zerolog.Nop())
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sender.SentCount() != 1 {
		t.Fatalf("expected one dispatch, got %d", sender.SentCount())
	}
	if got := sender.Sent[0].IncludeSubscriptionIDs; len(got) != 1 || got[0] != "123" {
		t.Errorf("expected only the linked patient's device, got %v", got)
	}
}

func TestRun_SourceErrorPropagates(t *testing.T) {
	wantErr := errors.New("repo down")
	engine := NewEngine(&stubSource{err: wantErr}, &stubCare{}, &stubDevices{}, push.NewMockSender(), nil, zerolog.Nop())

	if err := engine.Run(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("expected source error to propagate, got %v", err)
	}
}

func TestRun_SendErrorPropagates(t *testing.T) {
	patientID := uuid.New()
	nurseAccount := uuid.New()

	source := &stubSource{prescriptions: []*prescription.Prescription{expiring(patientID)}}
	care := &stubCare{accounts: map[uuid.UUID][]uuid.UUID{patientID: {nurseAccount}}}
	devices := &stubDevices{subs: map[uuid.UUID]string{nurseAccount: "123"}}
	sender := push.NewMockSender()
	sender.ShouldFail = true

	engine := NewEngine(source, care, devices, sender, nil, zerolog.Nop())
	if err := engine.Run(context.Background()); err == nil {
		t.Error("expected send failure to propagate")
	}
}

func TestRun_LedgerSuppressesSecondRun(t *testing.T) {
	patientID := uuid.New()
	nurseAccount := uuid.New()

	source := &stubSource{prescriptions: []*prescription.Prescription{expiring(patientID)}}
	care := &stubCare{accounts: map[uuid.UUID][]uuid.UUID{patientID: {nurseAccount}}}
	devices := &stubDevices{subs: map[uuid.UUID]string{nurseAccount: "123"}}
	sender := push.NewMockSender()
	ledger := &memoryLedger{seen: make(map[string]bool)}

	engine := NewEngine(source, care, devices, sender, ledger, zerolog.Nop())
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := engine.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sender.SentCount() != 1 {
		t.Errorf("expected the second run to be suppressed, got %d dispatches", sender.SentCount())
	}
}
