package user

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"orangejuice/internal/shared/apperr"
)

var (
	ErrUserNotFound       = apperr.New(apperr.KindNotFound, "user not found")
	ErrEmailTaken         = apperr.New(apperr.KindConflict, "email already registered")
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")
	ErrFullNameRequired   = apperr.Validation("full name is required")
	ErrInvalidEmail       = apperr.Validation("a valid email is required")
	ErrInvalidTaxID       = apperr.Validation("CPF must have 11 digits")
	ErrInvalidBirthDate   = apperr.Validation("birth date must be in the past")
	ErrPasswordTooShort   = apperr.Validation("password must have at least 6 characters")
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	BirthDate    time.Time `json:"birthDate"`
	TaxID        string    `json:"-"` // CPF, decrypted by the repository
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MaskedTaxID shows only the last two CPF digits.
func (u *User) MaskedTaxID() string {
	if len(u.TaxID) < 2 {
		return ""
	}
	return strings.Repeat("*", len(u.TaxID)-2) + u.TaxID[len(u.TaxID)-2:]
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	BirthDate    time.Time
	TaxID        string
}

// RegisterParams is the raw registration input.
type RegisterParams struct {
	FullName  string
	Email     string
	TaxID     string
	BirthDate time.Time
	Password  string
}

// NormalizeEmail lowercases and trims an address. Emails are unique
// case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeTaxID strips CPF punctuation, keeping digits only.
func NormalizeTaxID(cpf string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, cpf)
}
