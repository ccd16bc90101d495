package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mynotif/mynotif/internal/platform/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Provisioner creates the practitioner record backing a new account. The
// nurse domain supplies the implementation; registration works without one.
type Provisioner interface {
	EnsureNurse(ctx context.Context, accountID uuid.UUID) error
}

// Service provides business logic for account management.
type Service struct {
	repo        Repository
	issuer      *auth.TokenIssuer
	provisioner Provisioner
}

// NewService creates a new account service.
func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// SetProvisioner attaches an optional nurse provisioner to the service.
func (s *Service) SetProvisioner(p Provisioner) {
	s.provisioner = p
}

// Register creates a new account and provisions its nurse record.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	a := &Account{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	if s.provisioner != nil {
		if err := s.provisioner.EnsureNurse(ctx, a.ID); err != nil {
			return nil, fmt.Errorf("provision nurse: %w", err)
		}
	}

	return a, nil
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !VerifyPassword(a.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.NewAccessToken(a.ID.String(), a.Roles())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, a, nil
}

// Get returns the account by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.FirstName = firstName
	a.LastName = lastName
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !VerifyPassword(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if len(next) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return s.repo.Update(ctx, a)
}

// Delete removes the account.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
