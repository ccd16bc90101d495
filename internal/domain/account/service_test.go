package account

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mynotif/mynotif/internal/platform/auth"
)

type mockRepo struct {
	byID    map[uuid.UUID]*Account
	byEmail map[string]*Account
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		byID:    make(map[uuid.UUID]*Account),
		byEmail: make(map[string]*Account),
	}
}

func (m *mockRepo) Create(_ context.Context, a *Account) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.byID[a.ID] = a
	m.byEmail[a.Email] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Account) error {
	m.byID[a.ID] = a
	m.byEmail[a.Email] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	a, ok := m.byID[id]
	if !ok {
		return errors.New("not found")
	}
	delete(m.byEmail, a.Email)
	delete(m.byID, id)
	return nil
}

type mockProvisioner struct {
	calls []uuid.UUID
	fail  bool
}

func (m *mockProvisioner) EnsureNurse(_ context.Context, accountID uuid.UUID) error {
	if m.fail {
		return errors.New("provision failure")
	}
	m.calls = append(m.calls, accountID)
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(repo, issuer), repo
}

func TestRegister_CreatesAccount(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.Register(context.Background(), "jane@example.com", "longenough", "Jane", "Doe")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if a.ID == uuid.Nil {
		t.Error("expected account ID to be assigned")
	}
	if a.PasswordHash == "longenough" {
		t.Error("expected password to be hashed, not stored in plaintext")
	}
	if _, ok := repo.byEmail["jane@example.com"]; !ok {
		t.Error("expected account stored by email")
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), "  Jane@Example.COM ", "longenough", "Jane", "Doe")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := repo.byEmail["jane@example.com"]; !ok {
		t.Error("expected email lowercased and trimmed")
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "jane@example.com", "short", "Jane", "Doe"); err == nil {
		t.Error("expected error for short password")
	}
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "not-an-email", "longenough", "Jane", "Doe"); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestRegister_ProvisionsNurse(t *testing.T) {
	svc, _ := newTestService()
	prov := &mockProvisioner{}
	svc.SetProvisioner(prov)

	a, err := svc.Register(context.Background(), "jane@example.com", "longenough", "Jane", "Doe")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(prov.calls) != 1 || prov.calls[0] != a.ID {
		t.Errorf("expected nurse provisioned for %s, got %v", a.ID, prov.calls)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, a, err := svc.Login(ctx, "jane@example.com", "longenough")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("expected a non-empty token")
	}
	if a.Email != "jane@example.com" {
		t.Errorf("expected account returned, got %+v", a)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe")

	_, _, err := svc.Login(ctx, "jane@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe")

	if err := svc.ChangePassword(ctx, a.ID, "longenough", "evenlonger1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, err := svc.Login(ctx, "jane@example.com", "longenough"); err == nil {
		t.Error("expected old password rejected")
	}
	if _, _, err := svc.Login(ctx, "jane@example.com", "evenlonger1"); err != nil {
		t.Errorf("expected new password accepted, got %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, _ := svc.Register(ctx, "jane@example.com", "longenough", "Jane", "Doe")

	err := svc.ChangePassword(ctx, a.ID, "wrong", "evenlonger1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountRoles(t *testing.T) {
	a := &Account{}
	roles := a.Roles()
	if len(roles) != 1 || roles[0] != "nurse" {
		t.Errorf("expected [nurse], got %v", roles)
	}

	a.IsStaff = true
	roles = a.Roles()
	if len(roles) != 2 || roles[1] != "admin" {
		t.Errorf("expected [nurse admin], got %v", roles)
	}
}

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("my-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "my-password") {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword(hash, "other-password") {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, _ := HashPassword("same")
	h2, _ := HashPassword("same")
	if h1 == h2 {
		t.Error("expected different hashes for same password (random salt)")
	}
}

func TestHashPassword_BcryptEncoded(t *testing.T) {
	hash, err := HashPassword("my-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt-encoded hash, got %q", hash)
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		t.Errorf("expected parseable bcrypt cost: %v", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "x") {
		t.Error("expected malformed hash to fail verification")
	}
	if VerifyPassword("", "x") {
		t.Error("expected empty hash to fail verification")
	}
}
