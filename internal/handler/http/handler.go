package http

import (
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/service"
	"github.com/MKhiriev/go-journal-keeper/models"
)

// DraftTracker is the slice of the auto-save worker the handlers need:
// saved entries become tracked drafts, deleted entries stop being tracked.
type DraftTracker interface {
	Track(entry models.Entry)
	Untrack(entryID string)
}

type Handler struct {
	services *service.Services
	drafts   DraftTracker

	logger *logger.Logger
}

func NewHandler(services *service.Services, drafts DraftTracker, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		drafts:   drafts,
		logger:   logger,
	}
}
