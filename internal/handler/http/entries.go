package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-journal-keeper/internal/app"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
	"github.com/MKhiriev/go-journal-keeper/models"
)

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	entries, err := h.services.EntryService.LoadEntries(r.Context(), userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listEntries").Msg(app.MsgErrorLoadingEntries)
		http.Error(w, app.MsgErrorLoadingEntries, statusFromError(err))
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	_, _ = utils.WriteJSON(w, entries, http.StatusOK)
}

func (h *Handler) saveEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	var entry models.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Err(err).Str("func", "*Handler.saveEntry").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	// the resolved identity always wins over whatever the body claims
	entry.UserID = userID

	saved, err := h.services.EntryService.SaveEntry(r.Context(), entry)
	if err != nil {
		log.Err(err).Str("func", "*Handler.saveEntry").Msg(app.MsgErrorSavingEntry)
		http.Error(w, app.MsgErrorSavingEntry, statusFromError(err))
		return
	}

	h.drafts.Track(saved)

	_, _ = utils.WriteJSON(w, saved, http.StatusOK)
}

func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	entry, err := h.services.EntryService.GetEntry(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntry").Msg(app.MsgErrorLoadingEntry)
		http.Error(w, app.MsgErrorLoadingEntry, statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, entry, http.StatusOK)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	entryID := chi.URLParam(r, "id")
	if err := h.services.EntryService.DeleteEntry(r.Context(), userID, entryID); err != nil {
		log.Err(err).Str("func", "*Handler.deleteEntry").Msg(app.MsgErrorDeletingEntry)
		http.Error(w, app.MsgErrorDeletingEntry, statusFromError(err))
		return
	}

	h.drafts.Untrack(entryID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setFavorite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	var body struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Str("func", "*Handler.setFavorite").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.EntryService.SetFavorite(r.Context(), userID, chi.URLParam(r, "id"), body.Favorite); err != nil {
		log.Err(err).Str("func", "*Handler.setFavorite").Msg(app.MsgErrorUpdatingFavorite)
		http.Error(w, app.MsgErrorUpdatingFavorite, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) publishEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, app.MsgMissingUserIdentity, http.StatusUnauthorized)
		return
	}

	if err := h.services.EntryService.PublishEntry(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		log.Err(err).Str("func", "*Handler.publishEntry").Msg(app.MsgErrorPublishingEntry)
		http.Error(w, app.MsgErrorPublishingEntry, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
