package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

type MeResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	BirthDate string    `json:"birthDate"`
	CPF       string    `json:"cpf"`
	CreatedAt time.Time `json:"createdAt"`
}

// HandleMe returns the authenticated user's profile with the CPF masked
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		BirthDate: u.BirthDate.Format(time.DateOnly),
		CPF:       u.MaskedTaxID(),
		CreatedAt: u.CreatedAt,
	})
}
