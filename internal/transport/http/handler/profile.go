package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mealhub/api/internal/application/profile"
	"github.com/mealhub/api/internal/domain"
	"github.com/mealhub/api/internal/transport/http/middleware"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// ProfileHandler handles the authenticated profile endpoints. The acting
// identity always comes from the auth middleware, never from the request,
// so one account cannot touch another's record.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return
	}
	u, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeProfile(w, r, u)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return
	}
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := h.svc.Update(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeProfile(w, r, u)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	u, err := h.svc.UploadAvatar(r.Context(), userID, file, contentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	h.writeProfile(w, r, u)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, u *domain.User) {
	avatarURL, err := h.svc.AvatarURL(r.Context(), u)
	if err != nil {
		// The profile itself is more useful than a presign failure.
		avatarURL = ""
	}
	writeJSON(w, http.StatusOK, ProfileEnvelope{
		Name:      u.Name,
		Email:     u.Email,
		Sex:       u.Sex,
		BirthYear: u.BirthYear,
		AvatarURL: avatarURL,
	})
}
