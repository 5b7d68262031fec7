package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"neuttsd/internal/engine"
	"neuttsd/internal/manager"
	"neuttsd/internal/tts"
	"neuttsd/internal/voices"
	"neuttsd/pkg/types"
)

// Error categories used in the structured error payload.
const (
	errTypeInvalidRequest = "invalid_request_error"
	errTypeNotFound       = "not_found_error"
	errTypeConflict       = "conflict_error"
	errTypeDependency     = "dependency_error"
	errTypeServer         = "server_error"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// mapError turns a service error into an HTTP status and error category.
func mapError(err error) (int, string) {
	switch {
	case manager.IsModelNotFound(err), manager.IsTaskNotFound(err), voices.IsNotFound(err):
		return http.StatusNotFound, errTypeNotFound
	case manager.IsNotLoaded(err), manager.IsInvalidOperation(err), manager.IsUnsupported(err),
		voices.IsInvalidOperation(err), voices.IsValidation(err), tts.IsInvalidRequest(err):
		return http.StatusBadRequest, errTypeInvalidRequest
	case voices.IsAlreadyExists(err):
		return http.StatusConflict, errTypeConflict
	case errors.Is(err, engine.ErrGGUFNotBuilt):
		return http.StatusServiceUnavailable, errTypeDependency
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode(), errTypeServer
	}
	return http.StatusInternalServerError, errTypeServer
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, errType, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Message: msg, Type: errType, Code: status})
}

// writeServiceError maps and writes any service error.
func writeServiceError(w http.ResponseWriter, err error) {
	status, errType := mapError(err)
	writeJSONError(w, status, errType, err.Error())
}
