package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"orangejuice/internal/domain/user"
	"orangejuice/internal/shared/middleware"
)

// UserService is the part of user.Service the auth and profile handlers need.
type UserService interface {
	Register(ctx context.Context, params user.RegisterParams) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(userID uuid.UUID, email string) (string, time.Time, error)
}

type AuthHandler struct {
	users UserService
	jwt   TokenIssuer
}

func NewAuthHandler(users UserService, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type RegisterRequest struct {
	FullName  string `json:"fullName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	TaxID     string `json:"cpf" validate:"required"`
	BirthDate string `json:"birthDate" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// HandleRegister creates a user with its default accounts
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		writeError(w, r, user.ErrInvalidBirthDate)
		return
	}

	created, err := h.users.Register(r.Context(), user.RegisterParams{
		FullName:  req.FullName,
		Email:     req.Email,
		TaxID:     req.TaxID,
		BirthDate: birthDate,
		Password:  req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		ID:       created.ID,
		Email:    created.Email,
		FullName: created.FullName,
	})
}

// HandleLogin authenticates with email and password and issues a JWT
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresAt, err := h.jwt.Generate(u.ID, u.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	setAuthCookie(w, r, token, expiresAt)
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// HandleLogout clears the auth cookie
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// setAuthCookie sets the JWT as an HttpOnly cookie that expires with it
func setAuthCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
	})
}

// Only set Secure flag when actually using HTTPS
func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
