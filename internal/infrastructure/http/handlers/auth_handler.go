package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/application/auth"
	"github.com/rolodexhq/rolodex/internal/application/ports"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/middleware"
)

type AuthHandler struct {
	signup           *auth.Signup
	login            *auth.Login
	refresh          *auth.Refresh
	logout           *auth.Logout
	confirmEmail     *auth.ConfirmEmail
	sendConfirmation *auth.SendConfirmation
	emitter          ports.WebhookEmitter
	validate         *validator.Validate
	log              zerolog.Logger
}

func NewAuthHandler(signup *auth.Signup, login *auth.Login, refresh *auth.Refresh, logout *auth.Logout, confirmEmail *auth.ConfirmEmail, sendConfirmation *auth.SendConfirmation, emitter ports.WebhookEmitter, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		signup:           signup,
		login:            login,
		refresh:          refresh,
		logout:           logout,
		confirmEmail:     confirmEmail,
		sendConfirmation: sendConfirmation,
		emitter:          emitter,
		validate:         validator.New(),
		log:              log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.signup.Execute(r.Context(), auth.SignupInput{Email: email, Password: password})
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "user.signup", "", email, false, err.Error())
		middleware.RecordAuthAttempt("signup", false)
		if errors.Is(err, domerrors.ErrEmailTaken) || errors.Is(err, domerrors.ErrInvalidEmail) {
			writeDomainErr(w, err)
			return
		}
		h.log.Error().Err(err).Msg("signup failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditEmit(h.log, r, h.emitter, "user.signup", result.User.ID.String(), email, true, "")
	middleware.RecordAuthAttempt("signup", true)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user":   userResponse(result.User),
		"detail": "User successfully created. Check your email for confirmation.",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	password := SanitizePassword(body.Password)
	if email == "" || password == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email or password length")
		return
	}
	result, err := h.login.Execute(r.Context(), auth.LoginInput{Email: email, Password: password})
	if err != nil {
		AuditEmit(h.log, r, h.emitter, "user.login", "", email, false, err.Error())
		middleware.RecordAuthAttempt("login", false)
		if errors.Is(err, domerrors.ErrInvalidCredentials) || errors.Is(err, domerrors.ErrEmailNotConfirmed) {
			writeDomainErr(w, err)
			return
		}
		h.log.Error().Err(err).Msg("login failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditEmit(h.log, r, h.emitter, "user.login", result.User.ID.String(), email, true, "")
	middleware.RecordAuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    result.ExpiresIn,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required,max=1024"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.refresh.Execute(r.Context(), auth.RefreshInput{RefreshToken: body.RefreshToken})
	if err != nil {
		AuditLog(h.log, r, "auth.refresh", "", "", false, err.Error())
		middleware.RecordAuthAttempt("refresh", false)
		if errors.Is(err, domerrors.ErrInvalidToken) {
			writeDomainErr(w, err)
			return
		}
		h.log.Error().Err(err).Msg("refresh failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.refresh", "", "", true, "")
	middleware.RecordAuthAttempt("refresh", true)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "bearer",
		"expires_in":    result.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token" validate:"required,max=1024"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.logout.Execute(r.Context(), auth.LogoutInput{RefreshToken: body.RefreshToken}); err != nil {
		AuditLog(h.log, r, "auth.logout", "", "", false, err.Error())
		if errors.Is(err, domerrors.ErrInvalidToken) {
			writeDomainErr(w, err)
			return
		}
		h.log.Error().Err(err).Msg("logout failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "auth.logout", "", "", true, "")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	result, err := h.confirmEmail.Execute(r.Context(), auth.ConfirmEmailInput{Token: token})
	if err != nil {
		AuditLog(h.log, r, "user.confirm_email", "", "", false, err.Error())
		if errors.Is(err, domerrors.ErrEmailTokenInvalid) || errors.Is(err, domerrors.ErrUserNotFound) {
			writeDomainErr(w, err)
			return
		}
		h.log.Error().Err(err).Msg("confirm email failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	AuditLog(h.log, r, "user.confirm_email", "", "", true, "")
	detail := "Email confirmed"
	if result.AlreadyConfirmed {
		detail = "Your email is already confirmed"
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": detail})
}

func (h *AuthHandler) SendConfirmation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	result, err := h.sendConfirmation.Execute(r.Context(), auth.SendConfirmationInput{Email: SanitizeEmail(body.Email)})
	if err != nil {
		h.log.Error().Err(err).Msg("send confirmation failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	detail := "Check your email for confirmation."
	if result.AlreadyConfirmed {
		detail = "Your email is already confirmed"
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": detail})
}
