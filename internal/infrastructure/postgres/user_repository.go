package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orangejuice/internal/domain/user"
	"orangejuice/internal/infrastructure/crypto"
)

// UserRepository stores users with the CPF encrypted at rest. Callers
// always see the plain value.
type UserRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

func NewUserRepository(db *DB, encryptor *crypto.Encryptor) *UserRepository {
	return &UserRepository{
		db:        db,
		encryptor: encryptor,
	}
}

const userColumns = `id, email, password_hash, full_name, birth_date, tax_id, created_at, updated_at`

func (r *UserRepository) scan(row interface{ Scan(...any) error }) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FullName,
		&u.BirthDate, &u.TaxID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	taxID, err := r.encryptor.Decrypt(u.TaxID)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt tax id: %w", err)
	}
	u.TaxID = taxID
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	encryptedTaxID, err := r.encryptor.Encrypt(params.TaxID)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt tax id: %w", err)
	}

	query := `
		INSERT INTO users (id, email, password_hash, full_name, birth_date, tax_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := r.scan(r.db.QueryRowContext(
		ctx, query,
		uuid.New(), params.Email, params.PasswordHash, params.FullName, params.BirthDate, encryptedTaxID,
	))
	if isUniqueViolation(err) {
		return nil, user.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*user.User, error) {
	u, err := r.scan(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
