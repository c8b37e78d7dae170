package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/models"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Error   string            `json:"error"`             // Error message
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	if validationErr != nil {
		errorResp.Details = make(map[string]string)
		for _, err := range validationErr.(validator.ValidationErrors) {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendDomainError maps a domain error onto its HTTP status. Unknown errors
// become a 500 with the detail kept out of the response body.
func SendDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()
	var details map[string]string

	switch {
	case errors.Is(err, models.ErrWalletNotFound),
		errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrRegistrationNotFound),
		errors.Is(err, models.ErrPaymentNotFound),
		errors.Is(err, models.ErrDraftNotFound),
		errors.Is(err, models.ErrProofNotFound),
		errors.Is(err, models.ErrReferenceCodeInvalid):
		status = http.StatusNotFound

	case errors.Is(err, models.ErrInvalidParticipantRef),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrReasonRequired),
		errors.Is(err, models.ErrProofRequired),
		errors.Is(err, models.ErrAmountMismatch):
		status = http.StatusBadRequest

	case errors.Is(err, models.ErrProofTooLarge):
		status = http.StatusRequestEntityTooLarge

	case errors.Is(err, models.ErrProofUnsupportedType):
		status = http.StatusUnsupportedMediaType

	case errors.Is(err, models.ErrDuplicateRegistration),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrConcurrentModification):
		status = http.StatusConflict

	case errors.Is(err, models.ErrDraftRateLimited):
		status = http.StatusTooManyRequests

	case errors.Is(err, models.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
		details = map[string]string{
			"hint": "top up your wallet and retry, or resubmit with method external_cash",
		}

	case errors.Is(err, models.ErrMaxResubmissionsExceeded),
		errors.Is(err, models.ErrInvalidStateTransition),
		errors.Is(err, models.ErrEventNotOpen):
		status = http.StatusUnprocessableEntity

	case errors.Is(err, models.ErrIdempotencyKeyConflict):
		// Caller bug, not a retryable race. Stays a 500; the sentinel
		// message is safe to leave in the body.
		log.Errorf("[HTTP] Idempotency key conflict: %v", err)

	default:
		log.Errorf("[HTTP] Internal error: %v", err)
		message = "Internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Details: details})
}

// actorFromContext rebuilds the acting identity placed in the request context
// by the auth middleware. Unauthenticated requests act as "anonymous".
func actorFromContext(ctx context.Context) models.Actor {
	var actor models.Actor
	if v, ok := ctx.Value("actorID").(string); ok {
		actor.ID = v
	}
	if v, ok := ctx.Value("actorRole").(string); ok {
		actor.Role = v
		actor.Staff = v == "staff" || v == "admin"
	}
	if actor.ID == "" {
		actor.ID = "anonymous"
	}
	return actor
}
