package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/models"
)

// DraftService keeps multi-step registration forms in Redis until they are
// submitted or expire. Drafts never touch event capacity; only submission
// goes through the registration pipeline.
type DraftService struct {
	redis         *redis.Client
	cfg           *config.WorkflowConfig
	registrations *RegistrationService
}

func NewDraftService(redis *redis.Client, cfg *config.WorkflowConfig, registrations *RegistrationService) *DraftService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &DraftService{
		redis:         redis,
		cfg:           cfg,
		registrations: registrations,
	}
}

func draftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

// Create opens a new draft for the actor, optionally seeded with a first
// patch. Creation is rate limited per actor.
func (s *DraftService) Create(ctx context.Context, actor models.Actor, patch models.DraftPatch) (*models.RegistrationDraft, error) {
	if s.redis == nil {
		return nil, errors.New("registration drafts require Redis")
	}

	if err := s.checkRateLimit(ctx, actor.ID); err != nil {
		log.Printf("[DRAFT] Create rate limited for %s: %v", actor.ID, err)
		return nil, err
	}

	now := time.Now()
	draft := &models.RegistrationDraft{
		ID:        uuid.New().String(),
		OwnerID:   actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	draft.Apply(patch)

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	s.incrementRateLimit(ctx, actor.ID)

	log.Printf("[DRAFT] Created draft %s for %s", draft.ID, actor.ID)
	return draft, nil
}

// Get loads a draft. Expired drafts are indistinguishable from ones that
// never existed.
func (s *DraftService) Get(ctx context.Context, draftID string, actor models.Actor) (*models.RegistrationDraft, error) {
	if s.redis == nil {
		return nil, errors.New("registration drafts require Redis")
	}

	data, err := s.redis.Get(ctx, draftKey(draftID)).Bytes()
	if err == redis.Nil {
		return nil, models.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var draft models.RegistrationDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	if draft.OwnerID != actor.ID && !actor.Staff {
		return nil, models.ErrDraftNotFound
	}
	return &draft, nil
}

// Patch merges one step's input into the draft and refreshes its TTL.
func (s *DraftService) Patch(ctx context.Context, draftID string, patch models.DraftPatch, actor models.Actor) (*models.RegistrationDraft, error) {
	draft, err := s.Get(ctx, draftID, actor)
	if err != nil {
		return nil, err
	}

	draft.Apply(patch)
	draft.UpdatedAt = time.Now()

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit turns a complete draft into a real registration and discards the
// draft. An incomplete draft is rejected before any capacity is touched.
func (s *DraftService) Submit(ctx context.Context, draftID string, actor models.Actor) (*models.Registration, error) {
	draft, err := s.Get(ctx, draftID, actor)
	if err != nil {
		return nil, err
	}
	if err := draft.ReadyToSubmit(); err != nil {
		return nil, err
	}

	reg, err := s.registrations.Submit(&models.RegistrationRequest{
		EventID:     draft.EventID,
		Participant: draft.Participant,
		CustomData:  draft.CustomData,
	}, actor)
	if err != nil {
		return nil, err
	}

	s.redis.Del(ctx, draftKey(draftID))

	log.Printf("[DRAFT] Draft %s submitted as registration %s", draftID, reg.ID)
	return reg, nil
}

// Discard drops a draft. Dropping a missing draft is a no-op.
func (s *DraftService) Discard(ctx context.Context, draftID string, actor models.Actor) error {
	if _, err := s.Get(ctx, draftID, actor); err != nil {
		if err == models.ErrDraftNotFound {
			return nil
		}
		return err
	}
	return s.redis.Del(ctx, draftKey(draftID)).Err()
}

func (s *DraftService) save(ctx context.Context, draft *models.RegistrationDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, draftKey(draft.ID), data, s.cfg.DraftTTL).Err()
}

func (s *DraftService) checkRateLimit(ctx context.Context, actorID string) error {
	key := fmt.Sprintf("draft:ratelimit:%s", actorID)
	count, err := s.redis.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return err
	}

	if count >= s.cfg.DraftMaxPerActor {
		return models.ErrDraftRateLimited
	}

	return nil
}

func (s *DraftService) incrementRateLimit(ctx context.Context, actorID string) {
	key := fmt.Sprintf("draft:ratelimit:%s", actorID)
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.cfg.DraftRateWindow)
	pipe.Exec(ctx)
}
