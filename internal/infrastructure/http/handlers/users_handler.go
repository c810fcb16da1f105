package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rolodexhq/rolodex/internal/application/users"
	"github.com/rolodexhq/rolodex/internal/domain"
	"github.com/rolodexhq/rolodex/internal/infrastructure/avatar"
	"github.com/rolodexhq/rolodex/internal/infrastructure/http/middleware"
)

type UsersHandler struct {
	updateAvatar *users.UpdateAvatar
	log          zerolog.Logger
}

func NewUsersHandler(updateAvatar *users.UpdateAvatar, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{updateAvatar: updateAvatar, log: log}
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, userResponse(user))
}

func (h *UsersHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "could not validate credentials")
		return
	}
	if h.updateAvatar == nil {
		writeErr(w, http.StatusServiceUnavailable, "", "avatar storage is not configured")
		return
	}
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "file field is required")
		return
	}
	defer file.Close()

	result, err := h.updateAvatar.Execute(r.Context(), users.UpdateAvatarInput{
		Email:       user.Email,
		File:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		AuditLog(h.log, r, "user.update_avatar", user.ID.String(), user.Email, false, err.Error())
		switch {
		case errors.Is(err, avatar.ErrFileTooBig):
			writeErr(w, http.StatusRequestEntityTooLarge, "", err.Error())
		case errors.Is(err, avatar.ErrInvalidFileType):
			writeErr(w, http.StatusUnsupportedMediaType, "", err.Error())
		default:
			writeDomainErr(w, err)
		}
		return
	}
	AuditLog(h.log, r, "user.update_avatar", user.ID.String(), user.Email, true, "")
	writeJSON(w, http.StatusOK, userResponse(result.User))
}

func userResponse(u *domain.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID.String(),
		"email":      u.Email,
		"avatar":     u.Avatar,
		"confirmed":  u.Confirmed,
		"created_at": u.CreatedAt.Format(time.RFC3339),
	}
}
