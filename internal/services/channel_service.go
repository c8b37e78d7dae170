package services

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
)

// PaymentChannel is one place a participant can hand over cash or send a
// transfer for an entry fee. The code goes into the proof reference so staff
// know where to look when verifying.
type PaymentChannel struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	LogoData string `json:"logoData"`
}

const (
	logosDir = "./static/channel-logos"
	demoSVG  = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#f0f0f0"/><path d="M100 60c-22.1 0-40 17.9-40 40s17.9 40 40 40 40-17.9 40-40-17.9-40-40-40zm0 65c-13.8 0-25-11.2-25-25s11.2-25 25-25 25 11.2 25 25-11.2 25-25 25z" fill="#999"/><text x="100" y="170" text-anchor="middle" font-family="Arial" font-size="14" fill="#666">CASH</text></svg>`
)

var channelLogos = map[string]string{
	"DESK-MAIN":  "venue-desk.svg",
	"DESK-SIDE":  "venue-desk.svg",
	"KIOSK-NORD": "kiosk.svg",
	"KIOSK-SUED": "kiosk.svg",
	"KIOSK-GAME": "gamestation.svg",
	"WIRE-SEPA":  "bank-transfer.svg",
	"WIRE-INTL":  "bank-transfer.svg",
	"PARTNER-LN": "lanpartner.svg",
	"PARTNER-ES": "esportsbar.svg",
}

var cashChannels = []PaymentChannel{
	{Code: "DESK-MAIN", Name: "Main Venue Cash Desk", Kind: "desk"},
	{Code: "DESK-SIDE", Name: "Side Hall Cash Desk", Kind: "desk"},
	{Code: "KIOSK-NORD", Name: "North Entrance Kiosk", Kind: "kiosk"},
	{Code: "KIOSK-SUED", Name: "South Entrance Kiosk", Kind: "kiosk"},
	{Code: "KIOSK-GAME", Name: "Game Station Kiosk", Kind: "kiosk"},
	{Code: "WIRE-SEPA", Name: "SEPA Bank Transfer", Kind: "bank_transfer"},
	{Code: "WIRE-INTL", Name: "International Wire", Kind: "bank_transfer"},
	{Code: "PARTNER-LN", Name: "LAN Partner Store", Kind: "partner"},
	{Code: "PARTNER-ES", Name: "Esports Bar Counter", Kind: "partner"},
}

type ChannelService struct{}

func NewChannelService() *ChannelService {
	return &ChannelService{}
}

// GetAllChannels lists cash payment channels
// @Summary List payment channels
// @Description List the cash desks, kiosks, and transfer routes accepted for entry fees
// @Tags channels
// @Produce json
// @Success 200 {array} PaymentChannel
// @Router /channels [get]
func (cs *ChannelService) GetAllChannels(w http.ResponseWriter, r *http.Request) {
	channels := make([]PaymentChannel, len(cashChannels))
	copy(channels, cashChannels)

	for i := range channels {
		channels[i].LogoData = cs.LoadLogo(channels[i].Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	json.NewEncoder(w).Encode(channels)
}

func (cs *ChannelService) LoadLogo(code string) string {
	filename, ok := channelLogos[code]
	if !ok {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(demoSVG))
	}

	path := filepath.Join(logosDir, filename)
	if data, err := os.ReadFile(path); err == nil {
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data)
	}

	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(demoSVG))
}
