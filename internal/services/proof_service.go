package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/models"
	"github.com/deltaarena/backend/internal/storage"
)

// proofRefPrefix marks proof references that point at an uploaded blob, as
// opposed to external receipt numbers typed in by hand.
const proofRefPrefix = "proof:"

// ProofService stores and serves payment evidence files. Uploads are
// validated by sniffed content type, never by the client-sent filename or
// header.
type ProofService struct {
	cfg   *config.WorkflowConfig
	store storage.BlobStore
}

func NewProofService(cfg *config.WorkflowConfig, store storage.BlobStore) *ProofService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &ProofService{cfg: cfg, store: store}
}

// Store validates and persists an uploaded proof, returning the reference to
// put on the payment.
func (ps *ProofService) Store(data []byte) (string, string, error) {
	if int64(len(data)) > ps.cfg.ProofMaxBytes {
		return "", "", fmt.Errorf("%w: %d bytes, limit %d", models.ErrProofTooLarge, len(data), ps.cfg.ProofMaxBytes)
	}

	mtype := mimetype.Detect(data)
	allowed := false
	for _, t := range ps.cfg.ProofAllowedTypes {
		if mtype.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "", fmt.Errorf("%w: %s", models.ErrProofUnsupportedType, mtype.String())
	}

	key := uuid.New().String()
	if err := ps.store.Put(key, data); err != nil {
		return "", "", err
	}

	log.Printf("[PROOF] Stored proof %s (%s, %d bytes)", key, mtype.String(), len(data))
	return proofRefPrefix + key, mtype.String(), nil
}

// Fetch loads a stored proof by its reference.
func (ps *ProofService) Fetch(ref string) ([]byte, string, error) {
	key := strings.TrimPrefix(ref, proofRefPrefix)
	if _, err := uuid.Parse(key); err != nil {
		return nil, "", models.ErrProofNotFound
	}

	data, err := ps.store.Get(key)
	if err != nil {
		return nil, "", err
	}
	return data, mimetype.Detect(data).String(), nil
}

// UploadProof handles proof file upload
// @Summary Upload payment proof
// @Description Upload a receipt image or PDF; the returned reference goes into the proof submission
// @Tags proofs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Proof file"
// @Success 201 {object} object{proof_ref=string,content_type=string,size=int}
// @Failure 413 {object} ErrorResponse
// @Failure 415 {object} ErrorResponse
// @Router /proofs [post]
func (ps *ProofService) UploadProof(w http.ResponseWriter, r *http.Request) {
	// Multipart framing overhead on top of the file size limit.
	r.Body = http.MaxBytesReader(w, r.Body, ps.cfg.ProofMaxBytes+65_536)

	if err := r.ParseMultipartForm(ps.cfg.ProofMaxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			SendDomainError(w, models.ErrProofTooLarge)
			return
		}
		SendErrorResponse(w, "Invalid multipart request", http.StatusBadRequest, nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		SendErrorResponse(w, "Missing file field", http.StatusBadRequest, nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	ref, contentType, err := ps.Store(data)
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"proof_ref":    ref,
		"content_type": contentType,
		"size":         len(data),
	})
}

// GetProof handles proof retrieval for verification
// @Summary Download payment proof
// @Description Stream a stored proof file for review
// @Tags proofs
// @Produce octet-stream
// @Param proofId path string true "Proof ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /proofs/{proofId} [get]
func (ps *ProofService) GetProof(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := ps.Fetch(proofRefPrefix + chi.URLParam(r, "proofId"))
	if err != nil {
		SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
