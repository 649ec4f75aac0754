package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-journal-keeper/internal/service"
	"github.com/MKhiriev/go-journal-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrValidationNoUserID:      http.StatusBadRequest,
	service.ErrValidationNoEntryID:     http.StatusBadRequest,
	service.ErrValidationBadVisibility: http.StatusBadRequest,

	service.ErrEntryNotFound: http.StatusNotFound,

	service.ErrTagSyncFailed: http.StatusInternalServerError,
	store.ErrEntryNotFound:   http.StatusNotFound,

	store.ErrEntryNotSaved:   http.StatusInternalServerError,
	store.ErrTagNotSaved:     http.StatusInternalServerError,
	store.ErrProfileNotSaved: http.StatusInternalServerError,
	store.ErrSchemaMismatch:  http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
