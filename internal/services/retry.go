package services

import (
	"errors"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/metrics"
	"github.com/deltaarena/backend/internal/models"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 50 * time.Millisecond
)

// retryConflicts runs op, retrying a bounded number of times when it fails
// with a retryable conflict (lost row race, serialization failure, deadlock).
// Validation and business-rule errors pass straight through.
func retryConflicts(attempts int, backoff time.Duration, op func() error) error {
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if !isRetryableConflict(err) {
			return err
		}
		if i < attempts-1 {
			log.Printf("[RETRY] attempt %d failed with conflict, retrying: %v", i+1, err)
			metrics.Default().IncConflictRetry()
			time.Sleep(backoff * time.Duration(i+1))
		}
	}
	return err
}

func isRetryableConflict(err error) bool {
	if errors.Is(err, models.ErrConcurrentModification) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// serialization_failure, deadlock_detected
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
