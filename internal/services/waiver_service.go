package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/deltaarena/backend/internal/models"
)

// RankSource answers current competitive rank lookups for a participant in a
// ranking category. Implemented by the platform ranking service.
type RankSource interface {
	GetRank(ref models.ParticipantRef, category string) (int, error)
}

// HTTPRankSource queries the ranking service over HTTP.
type HTTPRankSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRankSource(baseURL string, timeout time.Duration) *HTTPRankSource {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPRankSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (rs *HTTPRankSource) GetRank(ref models.ParticipantRef, category string) (int, error) {
	externalURL := fmt.Sprintf("%s/ranks/%s?category=%s",
		rs.baseURL, url.PathEscape(ref.String()), url.QueryEscape(category))
	resp, err := rs.client.Get(externalURL)
	if err != nil {
		log.Printf("[WAIVER] Rank service request failed: %v", err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[WAIVER] Rank service returned non-OK status: %d", resp.StatusCode)
		return 0, fmt.Errorf("rank service returned status %d", resp.StatusCode)
	}

	var result struct {
		Rank int `json:"rank"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[WAIVER] Failed to decode rank service response: %v", err)
		return 0, err
	}

	return result.Rank, nil
}

// WaiverService decides whether a participant's entry fee is waived. The
// waiver is a discount, not a gate: any failure to reach the ranking service
// fails open to the paid path.
type WaiverService struct {
	ranks RankSource
}

func NewWaiverService(ranks RankSource) *WaiverService {
	return &WaiverService{ranks: ranks}
}

// QualifiesForWaiver is evaluated once, when the registration is submitted.
// The stored result is reused at waitlist promotion so the decision a
// participant saw at submission never flips under them.
func (ws *WaiverService) QualifiesForWaiver(event *models.Event, ref models.ParticipantRef) bool {
	if event.WaiverRankThreshold <= 0 || event.EntryFee <= 0 {
		return false
	}
	if ws == nil || ws.ranks == nil {
		return false
	}

	rank, err := ws.ranks.GetRank(ref, event.Category)
	if err != nil {
		log.Printf("[WAIVER] Rank lookup failed for %s, falling back to paid path: %v", ref.String(), err)
		return false
	}
	if rank <= 0 {
		return false
	}

	qualifies := rank <= event.WaiverRankThreshold
	if qualifies {
		log.Printf("[WAIVER] %s ranked %d, within threshold %d for event %s",
			ref.String(), rank, event.WaiverRankThreshold, event.ID)
	}
	return qualifies
}
