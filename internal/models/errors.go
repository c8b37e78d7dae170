package models

import "errors"

// Validation errors: the request itself is malformed. Never retried.
var (
	ErrInvalidParticipantRef = errors.New("exactly one of user or team reference must be set")
	ErrInvalidAmount         = errors.New("amount must be a positive whole number of minor units")
	ErrReasonRequired        = errors.New("a reason is required for this action")
	ErrProofRequired         = errors.New("a proof reference is required for external cash payments")
	ErrProofTooLarge         = errors.New("proof file exceeds the maximum allowed size")
	ErrProofUnsupportedType  = errors.New("proof file type is not supported")
)

// Conflict errors: the request was well formed but lost a race or clashed
// with existing state. Safe to retry or surface as 409.
var (
	ErrDuplicateRegistration  = errors.New("an active registration already exists for this participant")
	ErrCapacityExceeded       = errors.New("event capacity exceeded")
	ErrConcurrentModification = errors.New("record was modified concurrently, retry the operation")
)

// ErrIdempotencyKeyConflict is fatal, not a retryable race: the caller reused
// a key with a different payload. Never resolved by retrying and never
// surfaced as a conflict.
var ErrIdempotencyKeyConflict = errors.New("idempotency key was already used with a different payload")

// ErrDraftRateLimited is returned when an actor opens drafts faster than the
// configured window allows.
var ErrDraftRateLimited = errors.New("draft creation rate limit exceeded")

// Business-rule errors: the domain forbids the transition.
var (
	ErrInsufficientBalance      = errors.New("insufficient wallet balance")
	ErrAmountMismatch           = errors.New("declared amount does not match the required entry fee")
	ErrMaxResubmissionsExceeded = errors.New("maximum number of proof resubmissions reached")
	ErrInvalidStateTransition   = errors.New("invalid state transition")
	ErrEventNotOpen             = errors.New("event is not open for registration")
)

// Not-found errors.
var (
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrDraftNotFound        = errors.New("registration draft not found or expired")
	ErrProofNotFound        = errors.New("proof file not found")
	ErrReferenceCodeInvalid = errors.New("invalid or expired reference code")
)
