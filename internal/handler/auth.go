package handler

import (
	"context"
	"net/http"

	"github.com/Shivanand-hulikatti/flight-booking/internal/session"
	"github.com/Shivanand-hulikatti/flight-booking/internal/validation"
)

// GetSession handles GET /auth/session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.State())
}

// Login handles POST /auth/login
// Failed credentials answer 401 with the session state carrying the message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var st session.State
	ok := submitForm(h, w, r, "login", validation.LoginValues{}, h.val.Login,
		func(ctx context.Context, v validation.LoginValues) error {
			st = h.session.Login(detach(ctx), v.Email, v.Password)
			return nil
		})
	if !ok {
		return
	}
	writeSession(w, http.StatusOK, st)
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var st session.State
	ok := submitForm(h, w, r, "register", validation.RegisterValues{}, h.val.Register,
		func(ctx context.Context, v validation.RegisterValues) error {
			st = h.session.Register(detach(ctx), v.Name, v.Email, v.Password)
			return nil
		})
	if !ok {
		return
	}
	writeSession(w, http.StatusCreated, st)
}

func writeSession(w http.ResponseWriter, okStatus int, st session.State) {
	if st.Error != "" {
		writeJSON(w, http.StatusUnauthorized, st)
		return
	}
	writeJSON(w, okStatus, st)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.Logout(detach(r.Context())))
}

// ResetAuthError handles POST /auth/reset-error
func (h *Handler) ResetAuthError(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session.ResetError())
}
