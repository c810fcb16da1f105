package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/application/ports"
	"github.com/rolodexhq/rolodex/internal/domain"
	domerrors "github.com/rolodexhq/rolodex/internal/domain/errors"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/middleware"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type ContactsHandler struct {
	contacts ports.ContactRepository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewContactsHandler(contacts ports.ContactRepository, log zerolog.Logger) *ContactsHandler {
	return &ContactsHandler{
		contacts: contacts,
		validate: validator.New(),
		log:      log,
	}
}

type contactBody struct {
	FirstName      string  `json:"first_name" validate:"required,max=120"`
	LastName       string  `json:"last_name" validate:"required,max=120"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	Phone          string  `json:"phone" validate:"required,max=32"`
	BirthDate      string  `json:"birth_date" validate:"required"`
	AdditionalData *string `json:"additional_data" validate:"omitempty,max=2000"`
}

func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	var body contactBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	birthDate, err := time.Parse("2006-01-02", body.BirthDate)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "birth_date must be YYYY-MM-DD")
		return
	}
	contact := &domain.Contact{
		ID:             domain.NewContactID(uuid.New()),
		UserID:         user.ID,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          SanitizeEmail(body.Email),
		Phone:          body.Phone,
		BirthDate:      birthDate,
		AdditionalData: body.AdditionalData,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.contacts.Create(r.Context(), contact); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("create contact failed")
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse(contact))
}

func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", defaultListLimit)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	contacts, err := h.contacts.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("list contacts failed")
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contactListResponse(contacts))
}

func (h *ContactsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	contact, err := h.contacts.GetByID(r.Context(), user.ID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if contact == nil {
		writeDomainErr(w, domerrors.ErrContactNotFound)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse(contact))
}

func (h *ContactsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	var body contactBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	birthDate, err := time.Parse("2006-01-02", body.BirthDate)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "birth_date must be YYYY-MM-DD")
		return
	}
	contact := &domain.Contact{
		ID:             id,
		UserID:         user.ID,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Email:          SanitizeEmail(body.Email),
		Phone:          body.Phone,
		BirthDate:      birthDate,
		AdditionalData: body.AdditionalData,
	}
	if err := h.contacts.Update(r.Context(), contact); err != nil {
		writeDomainErr(w, err)
		return
	}
	updated, err := h.contacts.GetByID(r.Context(), user.ID, id)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("reload contact after update failed")
		writeDomainErr(w, err)
		return
	}
	if updated == nil {
		writeDomainErr(w, domerrors.ErrContactNotFound)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse(updated))
}

func (h *ContactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), user.ID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactsHandler) SearchByFirstName(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		writeErr(w, http.StatusBadRequest, "", "first name is required")
		return
	}
	contacts, err := h.contacts.SearchByFirstName(r.Context(), user.ID, name)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contactListResponse(contacts))
}

func (h *ContactsHandler) SearchByLastName(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	name := chi.URLParam(r, "name")
	if name == "" {
		writeErr(w, http.StatusBadRequest, "", "last name is required")
		return
	}
	contacts, err := h.contacts.SearchByLastName(r.Context(), user.ID, name)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contactListResponse(contacts))
}

func (h *ContactsHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	email := SanitizeEmail(chi.URLParam(r, "email"))
	if email == "" {
		writeErr(w, http.StatusBadRequest, "", "email is required")
		return
	}
	contact, err := h.contacts.GetByEmail(r.Context(), user.ID, email)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if contact == nil {
		writeDomainErr(w, domerrors.ErrContactNotFound)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse(contact))
}

func (h *ContactsHandler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), user.ID, time.Now().UTC())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contactListResponse(contacts))
}

func parseContactID(w http.ResponseWriter, r *http.Request) (domain.ContactID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "contact id must be a UUID")
		return domain.ContactID{}, false
	}
	return domain.NewContactID(id), true
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func contactResponse(c *domain.Contact) map[string]interface{} {
	return map[string]interface{}{
		"id":              c.ID.String(),
		"first_name":      c.FirstName,
		"last_name":       c.LastName,
		"email":           c.Email,
		"phone":           c.Phone,
		"birth_date":      c.BirthDate.Format("2006-01-02"),
		"additional_data": c.AdditionalData,
		"created_at":      c.CreatedAt.Format(time.RFC3339),
	}
}

func contactListResponse(contacts []*domain.Contact) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, contactResponse(c))
	}
	return out
}
