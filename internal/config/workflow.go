package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// WorkflowConfig carries the tunable limits of the registration and payment
// pipeline. Everything has a sane default so a bare environment still boots.
type WorkflowConfig struct {
	MaxResubmissions  int
	PromotionWindow   time.Duration
	DraftTTL          time.Duration
	DraftMaxPerActor  int
	DraftRateWindow   time.Duration
	ReferenceCodeTTL  time.Duration
	ProofMaxBytes     int64
	ProofAllowedTypes []string
	ProofDir          string
	RankServiceURL    string
	RankTimeout       time.Duration
	RetryAttempts     int
	RetryBackoff      time.Duration
	WaitlistSweepSpec string
}

func LoadWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		MaxResubmissions:  getEnvAsInt("PAYMENT_MAX_RESUBMISSIONS", 3),
		PromotionWindow:   getEnvAsDuration("WAITLIST_PROMOTION_WINDOW", 48*time.Hour),
		DraftTTL:          getEnvAsDuration("REGISTRATION_DRAFT_TTL", 24*time.Hour),
		DraftMaxPerActor:  getEnvAsInt("REGISTRATION_DRAFT_MAX_PER_ACTOR", 20),
		DraftRateWindow:   getEnvAsDuration("REGISTRATION_DRAFT_RATE_WINDOW", time.Hour),
		ReferenceCodeTTL:  getEnvAsDuration("PAYMENT_REFERENCE_TTL", 15*time.Minute),
		ProofMaxBytes:     getEnvAsInt64("PROOF_MAX_BYTES", 5*1024*1024),
		ProofAllowedTypes: getEnvAsList("PROOF_ALLOWED_TYPES", []string{"image/jpeg", "image/png", "application/pdf"}),
		ProofDir:          getEnv("PROOF_STORAGE_DIR", "./proofs"),
		RankServiceURL:    getEnv("RANK_SERVICE_URL", ""),
		RankTimeout:       getEnvAsDuration("RANK_SERVICE_TIMEOUT", 3*time.Second),
		RetryAttempts:     getEnvAsInt("CONFLICT_RETRY_ATTEMPTS", 3),
		RetryBackoff:      getEnvAsDuration("CONFLICT_RETRY_BACKOFF", 50*time.Millisecond),
		WaitlistSweepSpec: getEnv("WAITLIST_SWEEP_SPEC", "@every 1m"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.ParseInt(val, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultVal
}
