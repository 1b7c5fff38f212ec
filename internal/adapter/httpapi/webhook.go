package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
)

const (
	hmacHeader   = "X-Shopify-Hmac-Sha256"
	topicHeader  = "X-Shopify-Topic"
	domainHeader = "X-Shopify-Shop-Domain"
)

type webhookAck struct {
	Success bool `json:"success"`
}

// handleWebhook — обязательные вебхуки о данных клиентов и магазина.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := s.opts.Log.With("request_id", requestIDFrom(r.Context()))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, webhookAck{})
		return
	}
	if !validWebhookHMAC(s.opts.WebhookSecret, body, r.Header.Get(hmacHeader)) {
		log.Warn("webhook signature rejected", "topic", r.Header.Get(topicHeader))
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	topic := r.Header.Get(topicHeader)
	shop := r.Header.Get(domainHeader)
	log.Info("webhook received", "topic", topic, "shop", shop)

	switch topic {
	case "customers/data_request", "customers/redact":
		// клиентских данных приложение не хранит
		writeJSON(w, http.StatusOK, webhookAck{Success: true})
	case "shop/redact", "app/uninstalled":
		if s.opts.Redact != nil {
			if err := s.opts.Redact.Execute(r.Context(), shop); err != nil {
				log.Error("shop redaction failed", "topic", topic, "shop", shop, "err", err)
				writeJSON(w, http.StatusInternalServerError, webhookAck{})
				return
			}
		}
		writeJSON(w, http.StatusOK, webhookAck{Success: true})
	default:
		writeJSON(w, http.StatusBadRequest, webhookAck{})
	}
}

func validWebhookHMAC(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
