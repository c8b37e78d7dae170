package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/deltaarena/backend/internal/services"
)

type QRHandler struct {
	service   *services.QRService
	validator *services.ValidationHelper
}

func NewQRHandler(service *services.QRService) *QRHandler {
	return &QRHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// GeneratePaymentQR issues a cash desk reference code
// @Summary Generate payment QR code
// @Description Generate a claim-once QR reference for paying an entry fee in cash
// @Tags QR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{paymentId=string} true "QR generation request"
// @Success 200 {object} object{code=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Router /qr/payments [post]
func (h *QRHandler) GeneratePaymentQR(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("actorID").(string)
	if !ok || actorID == "" {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req struct {
		PaymentID string `json:"paymentId" validate:"required"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	code, qrImage, err := h.service.GeneratePaymentCode(r.Context(), req.PaymentID)
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"code":    code,
		"qrImage": qrImage,
	})
}

// ClaimPaymentQR resolves a scanned reference code
// @Summary Claim payment QR code
// @Description Resolve a scanned code to its payment details and consume it
// @Tags QR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{code=string} true "Claim request"
// @Success 200 {object} object{paymentId=string,amount=int64}
// @Failure 404 {object} services.ErrorResponse
// @Router /qr/claim [post]
func (h *QRHandler) ClaimPaymentQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	result, err := h.service.ClaimPaymentCode(r.Context(), req.Code)
	if err != nil {
		services.SendDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    result,
	})
}
