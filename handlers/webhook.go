package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"memberpass.app/cloud/internal/auth"
	"memberpass.app/cloud/internal/logger"
	"memberpass.app/cloud/internal/metrics"
	"memberpass.app/cloud/models"
)

// EventPaymentSucceeded is the only Helio event that activates a membership.
// Everything else on the stream is acknowledged and ignored.
const EventPaymentSucceeded = "payment_succeeded"

const maxBodyBytes = int64(65536)

// helioNotification is the raw webhook payload. Amount is untyped because
// the provider has been seen sending both numbers and numeric strings.
type helioNotification struct {
	Event     string      `json:"event"`
	Amount    interface{} `json:"amount"`
	Currency  string      `json:"currency"`
	Plan      string      `json:"plan"`
	Email     string      `json:"email"`
	Wallet    string      `json:"wallet"`
	TxHash    string      `json:"txHash"`
	Timestamp string      `json:"timestamp"`
}

type webhookResponse struct {
	OK        bool   `json:"ok"`
	Ignored   bool   `json:"ignored,omitempty"`
	Saved     bool   `json:"saved,omitempty"`
	Key       string `json:"key,omitempty"`
	Plan      string `json:"plan,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HelioWebhook ingests a payment notification: authenticate, normalize,
// validate, compute expiry, persist. One store write per accepted event.
func (s *Server) HelioWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	logger.Info("Helio webhook received", map[string]interface{}{
		"remote_addr": r.RemoteAddr,
		"user_agent":  r.Header.Get("User-Agent"),
	})

	if err := auth.VerifyRequest(r, s.Config.WebhookSecret); err != nil {
		if err == auth.ErrNotConfigured {
			logger.Error("HELIO_WEBHOOK_SECRET is not configured")
			metrics.WebhookEventsTotal.WithLabelValues("misconfigured").Inc()
			internalError(w)
			return
		}

		logger.Warn("Webhook signature rejected", map[string]interface{}{
			"remote_addr": r.RemoteAddr,
		})
		metrics.WebhookEventsTotal.WithLabelValues("unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, webhookResponse{OK: false})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.WebhookEventsTotal.WithLabelValues("error").Inc()
		internalError(w)
		return
	}

	var notification helioNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		// Malformed bodies from an authenticated caller are a provider bug,
		// not client error; surface as the generic internal failure.
		logger.Error("Failed to parse webhook JSON", map[string]interface{}{
			"error":        err.Error(),
			"payload_size": len(payload),
		})
		metrics.WebhookEventsTotal.WithLabelValues("error").Inc()
		internalError(w)
		return
	}

	if notification.Event != EventPaymentSucceeded {
		logger.Info("Ignoring irrelevant webhook event", map[string]interface{}{
			"event": notification.Event,
		})
		metrics.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		writeJSON(w, http.StatusOK, webhookResponse{OK: true, Ignored: true})
		return
	}

	plan := strings.ToLower(strings.TrimSpace(notification.Plan))
	email := models.NormalizeEmail(notification.Email)
	wallet := models.NormalizeWallet(notification.Wallet)

	if !models.ValidPlan(plan) {
		logger.Warn("Rejecting unknown plan", map[string]interface{}{
			"plan": notification.Plan,
		})
		metrics.WebhookEventsTotal.WithLabelValues("invalid_plan").Inc()
		writeJSON(w, http.StatusBadRequest, webhookResponse{OK: false, Error: "invalid_plan"})
		return
	}

	key, ok := models.IdentityKey(email, wallet)
	if !ok {
		logger.Warn("Rejecting notification without identity")
		metrics.WebhookEventsTotal.WithLabelValues("missing_identity").Inc()
		writeJSON(w, http.StatusBadRequest, webhookResponse{OK: false, Error: "missing_identity"})
		return
	}

	started := s.now().UTC()
	expires, err := models.ExpiryFrom(started, plan)
	if err != nil {
		internalError(w)
		return
	}

	record := &models.MembershipRecord{
		IdentityKey: key,
		Email:       email,
		Wallet:      wallet,
		Plan:        plan,
		Amount:      coerceAmount(notification.Amount),
		Currency:    strings.ToUpper(strings.TrimSpace(notification.Currency)),
		TxHash:      strings.TrimSpace(notification.TxHash),
		Provider:    models.ProviderHelio,
		Status:      models.StatusActive,
		StartedAt:   started.Format(time.RFC3339),
		ExpiresAt:   expires.Format(time.RFC3339),
	}

	if err := s.Storage.SaveMembership(r.Context(), record); err != nil {
		// Not retried here: the provider redelivers on non-2xx.
		logger.Error("Failed to save membership", map[string]interface{}{
			"error":        err.Error(),
			"identity_key": key,
		})
		metrics.WebhookEventsTotal.WithLabelValues("store_error").Inc()
		internalError(w)
		return
	}

	s.membershipsSaved.Inc()
	metrics.WebhookEventsTotal.WithLabelValues("saved").Inc()

	logger.Info("Membership saved", map[string]interface{}{
		"identity_key": key,
		"plan":         plan,
		"expires_at":   record.ExpiresAt,
		"tx_hash":      record.TxHash,
	})

	writeJSON(w, http.StatusOK, webhookResponse{
		OK:        true,
		Saved:     true,
		Key:       key,
		Plan:      plan,
		ExpiresAt: record.ExpiresAt,
	})
}

// coerceAmount accepts a JSON number or a numeric string; anything else
// (including absence) is 0 so downstream behavior stays deterministic.
func coerceAmount(v interface{}) float64 {
	switch amount := v.(type) {
	case float64:
		return amount
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
