package response

import (
	"errors"
	"net/http"

	"github.com/timekeep-ph/dtr-backend-go/internal/domain/auth"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/dtr"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/event"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/face"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/timelog"
	"github.com/timekeep-ph/dtr-backend-go/internal/domain/user"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/embedder"
	"github.com/timekeep-ph/dtr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrFaceNotRecognized):
		Unauthorized(w, "Face not recognized")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountDisabled), errors.Is(err, user.ErrAccountDisabled):
		Forbidden(w, "Account is disabled")
	case errors.Is(err, auth.ErrTooManyAttempts):
		TooManyRequests(w, "Too many failed attempts, try again later")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Face domain errors
	case errors.Is(err, embedder.ErrNoFaceDetected):
		BadRequest(w, "No face detected in image", nil)
	case errors.Is(err, embedder.ErrMultipleFacesDetected):
		BadRequest(w, "Multiple faces detected in image", nil)
	case errors.Is(err, face.ErrFaceAlreadyRegistered):
		Conflict(w, "This face is already registered to another account")
	case errors.Is(err, face.ErrConfirmMismatch):
		BadRequest(w, "Confirmation image does not match the first capture", nil)
	case errors.Is(err, face.ErrNoFaceRegistered):
		BadRequest(w, "No face registered for this account", nil)
	case errors.Is(err, face.ErrEmbeddingNotFound):
		NotFound(w, "Face embedding not found")

	// Time log domain errors
	case errors.Is(err, timelog.ErrActiveLogExists):
		Conflict(w, "You already have an active time log for this event")
	case errors.Is(err, timelog.ErrNoActiveLog):
		BadRequest(w, "No active time log found for this event", nil)
	case errors.Is(err, timelog.ErrTimeLogNotFound):
		NotFound(w, "Time log not found")

	// Event domain errors
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, event.ErrEventLocationNotSet):
		BadRequest(w, "Event location has not been set", nil)

	// DTR domain errors
	case errors.Is(err, dtr.ErrRecordNotFound):
		NotFound(w, "Daily time record not found")
	case errors.Is(err, dtr.ErrInvalidScheduleRange):
		ValidationError(w, map[string]string{
			"scheduled_time_out": "scheduled time out must be after scheduled time in",
		})

	// Default (includes face.ErrDimensionMismatch: corrupt stored data)
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
