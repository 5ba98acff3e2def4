package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dhchun1203/Trend-Analyzer-project/analysis"
	"github.com/dhchun1203/Trend-Analyzer-project/utils"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

// KeywordQR handles GET /qr/keyword-analysis?keyword=K - a QR code of the
// analysis permalink, for sharing a result to a phone.
func (h *PageHandler) KeywordQR(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	keyword, err := utils.ValidateKeyword(query.Get("keyword"))
	if err != nil {
		SendJSONError(w, http.StatusBadRequest, err, analysis.MsgEmptyKeyword)
		return
	}

	// Get size parameter (default: 256, min: 128, max: 1024)
	size := 256
	if sizeStr := query.Get("size"); sizeStr != "" {
		parsedSize, err := strconv.Atoi(sizeStr)
		if err != nil {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid size parameter"), "Size must be a number")
			return
		}
		if parsedSize < 128 || parsedSize > 1024 {
			SendJSONError(w, http.StatusBadRequest, errors.New("size out of range"), "Size must be between 128 and 1024")
			return
		}
		size = parsedSize
	}

	level := qrcode.Medium
	if levelStr := query.Get("level"); levelStr != "" {
		var ok bool
		if level, ok = parseLevel(levelStr); !ok {
			SendJSONError(w, http.StatusBadRequest, errors.New("invalid level parameter"), "Level must be: low, medium, high, or highest")
			return
		}
	}

	permalink := h.Permalink(keyword)

	png, err := qrcode.Encode(permalink, level, size)
	if err != nil {
		log.Error().Err(err).Str("url", permalink).Msg("Failed to generate QR code")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))

	if _, err := w.Write(png); err != nil {
		log.Error().Err(err).Msg("Failed to write QR code response")
		return
	}

	log.Info().
		Str("keyword", keyword).
		Int("size", size).
		Str("level", levelStr(level)).
		Msg("QR code generated successfully")
}

// Permalink is the shareable URL that re-runs the analysis of keyword.
func (h *PageHandler) Permalink(keyword string) string {
	return h.baseURL + "/keyword-analysis?" + url.Values{"keyword": {keyword}}.Encode()
}

func parseLevel(s string) (qrcode.RecoveryLevel, bool) {
	switch s {
	case "low":
		return qrcode.Low, true
	case "medium":
		return qrcode.Medium, true
	case "high":
		return qrcode.High, true
	case "highest":
		return qrcode.Highest, true
	}
	return qrcode.Medium, false
}

// levelStr converts qrcode.RecoveryLevel to string for logging
func levelStr(level qrcode.RecoveryLevel) string {
	switch level {
	case qrcode.Low:
		return "low"
	case qrcode.Medium:
		return "medium"
	case qrcode.High:
		return "high"
	case qrcode.Highest:
		return "highest"
	default:
		return "unknown"
	}
}
