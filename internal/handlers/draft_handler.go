package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/services"
)

type DraftHandler struct {
	service   *services.DraftService
	validator *services.ValidationHelper
}

func NewDraftHandler(service *services.DraftService) *DraftHandler {
	return &DraftHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

func actorFrom(r *http.Request) models.Actor {
	actor := models.Actor{ID: "anonymous"}
	if id, ok := r.Context().Value("actorID").(string); ok && id != "" {
		actor.ID = id
	}
	if role, ok := r.Context().Value("actorRole").(string); ok {
		actor.Role = role
		actor.Staff = role == "staff" || role == "admin"
	}
	return actor
}

// CreateDraft opens a registration draft
// @Summary Create registration draft
// @Description Open a multi-step registration form, optionally seeded with first inputs
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draft body models.DraftPatch false "Initial form input"
// @Success 201 {object} models.RegistrationDraft
// @Failure 401 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Router /drafts [post]
func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	if actor.ID == "anonymous" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var patch models.DraftPatch
	if r.Body != nil && r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		if err := dec.Decode(&patch); err != nil {
			log.Printf("[DRAFT] CreateDraft - Decode error: %v", err)
			services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
			return
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
			return
		}
	}

	draft, err := h.service.Create(r.Context(), actor, patch)
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(draft)
}

// GetDraft retrieves a draft
// @Summary Get registration draft
// @Description Retrieve an in-progress draft; expired drafts read as missing
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 200 {object} models.RegistrationDraft
// @Failure 404 {object} services.ErrorResponse
// @Router /drafts/{draftId} [get]
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.service.Get(r.Context(), chi.URLParam(r, "draftId"), actorFrom(r))
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

// PatchDraft merges form input into a draft
// @Summary Update registration draft
// @Description Merge one step's input into the draft and refresh its expiry
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Param patch body models.DraftPatch true "Form input"
// @Success 200 {object} models.RegistrationDraft
// @Failure 404 {object} services.ErrorResponse
// @Router /drafts/{draftId} [patch]
func (h *DraftHandler) PatchDraft(w http.ResponseWriter, r *http.Request) {
	var patch models.DraftPatch

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&patch); err != nil {
		log.Printf("[DRAFT] PatchDraft - Decode error: %v", err)
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	draft, err := h.service.Patch(r.Context(), chi.URLParam(r, "draftId"), patch, actorFrom(r))
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(draft)
}

// SubmitDraft turns a draft into a registration
// @Summary Submit registration draft
// @Description Submit a complete draft through the registration pipeline and discard it
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 201 {object} models.Registration
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /drafts/{draftId}/submit [post]
func (h *DraftHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	reg, err := h.service.Submit(r.Context(), chi.URLParam(r, "draftId"), actorFrom(r))
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reg)
}

// DiscardDraft drops a draft
// @Summary Discard registration draft
// @Description Drop an in-progress draft; discarding a missing draft succeeds
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param draftId path string true "Draft ID"
// @Success 200 {object} object{discarded=bool}
// @Router /drafts/{draftId} [delete]
func (h *DraftHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), chi.URLParam(r, "draftId"), actorFrom(r)); err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"discarded": true})
}
