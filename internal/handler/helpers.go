package handler

import (
	"errors"
	"net/http"

	"inkwell/internal/domain"
	"inkwell/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.VersionConflictError
	var storageErr *domain.StorageError

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "Validation failed.", map[string]interface{}{
			"errors": validationErr.Fields,
		})
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"expected_updated_at": conflictErr.Expected,
			"current_updated_at":  conflictErr.Actual,
		})
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &storageErr) && storageErr.ReadBack:
		httputil.RespondError(w, http.StatusInternalServerError, storageErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthHandler responds to liveness probes.
// GET /health
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
