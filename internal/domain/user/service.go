package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"orangejuice/internal/domain/uow"
	"orangejuice/internal/shared/apperr"
	"orangejuice/internal/shared/auth"
	"orangejuice/internal/shared/telemetry"
)

// AccountProvisioner opens the accounts every new customer starts with.
type AccountProvisioner interface {
	ProvisionDefaultAccounts(ctx context.Context, userID uuid.UUID) error
}

// Service contains registration and login rules
type Service struct {
	repo     Repository
	accounts AccountProvisioner
	tx       uow.Transactor
	validate *validator.Validate
	ops      *telemetry.Operations
}

func NewService(repo Repository, accounts AccountProvisioner, tx uow.Transactor) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		tx:       tx,
		validate: validator.New(),
		ops:      telemetry.NewOperations("orangejuice/user"),
	}
}

// Register creates the user and its default accounts in one unit of work.
func (s *Service) Register(ctx context.Context, params RegisterParams) (created *User, err error) {
	defer func() { s.ops.Record(ctx, "register", err) }()

	create, err := s.prepare(params)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// Checked up front so the common case does not depend on the
		// unique index error.
		if _, err := s.repo.GetByEmail(ctx, create.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return err
		}

		u, err := s.repo.Create(ctx, create)
		if err != nil {
			return err
		}
		if err := s.accounts.ProvisionDefaultAccounts(ctx, u.ID); err != nil {
			return fmt.Errorf("failed to provision accounts: %w", err)
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) prepare(params RegisterParams) (CreateUserParams, error) {
	fullName := strings.TrimSpace(params.FullName)
	if fullName == "" {
		return CreateUserParams{}, ErrFullNameRequired
	}

	email := NormalizeEmail(params.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return CreateUserParams{}, ErrInvalidEmail
	}

	taxID := NormalizeTaxID(params.TaxID)
	if len(taxID) != 11 {
		return CreateUserParams{}, ErrInvalidTaxID
	}

	if params.BirthDate.IsZero() || !params.BirthDate.Before(time.Now()) {
		return CreateUserParams{}, ErrInvalidBirthDate
	}

	if len(params.Password) < auth.MinPasswordLength {
		return CreateUserParams{}, ErrPasswordTooShort
	}
	hash, err := auth.HashPassword(params.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return CreateUserParams{}, apperr.Validation(err.Error())
	}
	if err != nil {
		return CreateUserParams{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		BirthDate:    params.BirthDate,
		TaxID:        taxID,
	}, nil
}

// Authenticate returns ErrInvalidCredentials for both an unknown email and
// a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (u *User, err error) {
	defer func() { s.ops.Record(ctx, "login", err) }()

	u, err = s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
