package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"

	"github.com/deltaarena/backend/internal/config"
	"github.com/deltaarena/backend/internal/models"
)

// QRService issues claim-once cash desk reference codes for external cash
// payments. The participant shows the QR at the desk; claiming it resolves
// the payment and the amount owed, and consumes the code.
type QRService struct {
	db    *sql.DB
	cfg   *config.WorkflowConfig
	redis *redis.Client
}

func NewQRService(db *sql.DB, cfg *config.WorkflowConfig, redis *redis.Client) *QRService {
	if cfg == nil {
		cfg = config.LoadWorkflowConfig()
	}
	return &QRService{
		db:    db,
		cfg:   cfg,
		redis: redis,
	}
}

func (s *QRService) GeneratePaymentCode(ctx context.Context, paymentID string) (string, string, error) {
	if s.redis == nil {
		return "", "", fmt.Errorf("reference codes require Redis")
	}

	payment, err := scanPayment(s.db.QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`, paymentID))
	if err != nil {
		return "", "", err
	}
	switch payment.Status {
	case models.PaymentPending, models.PaymentSubmitted, models.PaymentRejected:
	default:
		return "", "", fmt.Errorf("%w: payment is %s", models.ErrInvalidStateTransition, payment.Status)
	}

	reg, err := scanRegistration(s.db.QueryRow(`
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1`, payment.RegistrationID))
	if err != nil {
		return "", "", err
	}

	payload := map[string]any{
		"paymentId":      payment.ID,
		"registrationId": payment.RegistrationID,
		"eventId":        reg.EventID,
		"participant":    reg.Participant().String(),
		"amount":         payment.Amount,
		"timestamp":      time.Now().Unix(),
		"nonce":          s.generateNonce(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	code := base64.URLEncoding.EncodeToString(jsonData)

	key := fmt.Sprintf("payref:%s", code)
	if err := s.redis.Set(ctx, key, jsonData, s.cfg.ReferenceCodeTTL).Err(); err != nil {
		return "", "", err
	}

	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	return code, qrImage, nil
}

// ClaimPaymentCode resolves a scanned code and consumes it, so a code cannot
// vouch for two cash handovers.
func (s *QRService) ClaimPaymentCode(ctx context.Context, code string) (map[string]any, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("reference codes require Redis")
	}

	key := fmt.Sprintf("payref:%s", code)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, models.ErrReferenceCodeInvalid
	}
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	s.redis.Del(ctx, key)

	return result, nil
}

func (s *QRService) generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
