package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-journal-keeper/internal/app"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
	"github.com/MKhiriev/go-journal-keeper/models"
)

func (h *Handler) saveProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Err(err).Str("func", "*Handler.saveProfile").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}
	profile.UserID = userID

	if err := h.services.ProfileService.SaveProfile(r.Context(), profile); err != nil {
		log.Err(err).Str("func", "*Handler.saveProfile").Msg(app.MsgErrorSavingProfile)
		http.Error(w, app.MsgErrorSavingProfile, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) saveAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil || len(data) == 0 {
		log.Err(err).Str("func", "*Handler.saveAvatar").Msg(app.MsgEmptyAvatarPayload)
		http.Error(w, app.MsgEmptyAvatarPayload, http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	avatarURL, err := h.services.ProfileService.SaveAvatar(r.Context(), userID, data, contentType)
	if err != nil {
		log.Err(err).Str("func", "*Handler.saveAvatar").Msg(app.MsgErrorUploadingAvatar)
		http.Error(w, app.MsgErrorUploadingAvatar, statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, map[string]string{"avatar_url": avatarURL}, http.StatusOK)
}
