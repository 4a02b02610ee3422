package handler

import (
	"errors"
	"net/http"

	"later/internal/domain"
	"later/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Every response
// carries error_kind; tree rejections also carry an action-oriented message.
func handleError(w http.ResponseWriter, err error) {
	handleErrorWithExtras(w, err, nil)
}

func handleErrorWithExtras(w http.ResponseWriter, err error, extras map[string]interface{}) {
	kind := domain.KindOf(err)
	if extras == nil {
		extras = make(map[string]interface{}, 2)
	}
	extras["error_kind"] = kind
	if msg := domain.UserMessage(kind); msg != "" {
		extras["message"] = msg
	}

	status := statusFor(err, kind)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		detail = "internal server error"
	}

	httputil.RespondErrorWithExtras(w, status, detail, extras)
}

func statusFor(err error, kind domain.ErrorKind) int {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}

	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindDepthExceeded, domain.KindInvalidParent, domain.KindCycleDetected:
		return http.StatusUnprocessableEntity
	case domain.KindInvalidRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn to retrieve the existing resource
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, fetchErr)
			return
		}
		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, err)
}

// requireUser returns the authenticated user id or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}

// pathID returns the {id} path value or writes a 400
func pathID(w http.ResponseWriter, r *http.Request, resource string) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, resource+" ID is required")
		return "", false
	}
	return id, true
}

// HealthCheck reports liveness
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
