package handlers

import (
	"net/http"

	"memberpass.app/cloud/internal/logger"
	"memberpass.app/cloud/internal/metrics"
	"memberpass.app/cloud/models"
)

const (
	ReasonMissingParam = "missing_param"
	ReasonNotFound     = "not_found"
	ReasonExpired      = "expired"
)

type statusResponse struct {
	OK     bool                     `json:"ok"`
	Active bool                     `json:"active"`
	Reason string                   `json:"reason,omitempty"`
	Record *models.MembershipRecord `json:"record,omitempty"`
}

// MembershipStatus answers whether an identity currently holds an active
// membership. Read-only; expiry is evaluated here, never enforced by
// deleting records.
func (s *Server) MembershipStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	email := models.NormalizeEmail(r.URL.Query().Get("email"))
	wallet := models.NormalizeWallet(r.URL.Query().Get("wallet"))

	key, ok := models.IdentityKey(email, wallet)
	if !ok {
		metrics.MembershipQueriesTotal.WithLabelValues("missing_param").Inc()
		writeJSON(w, http.StatusBadRequest, statusResponse{
			OK:     false,
			Active: false,
			Reason: ReasonMissingParam,
		})
		return
	}

	record, err := s.Storage.GetMembership(r.Context(), key)
	if err != nil {
		logger.Error("Failed to read membership", map[string]interface{}{
			"error":        err.Error(),
			"identity_key": key,
		})
		metrics.MembershipQueriesTotal.WithLabelValues("store_error").Inc()
		internalError(w)
		return
	}

	if record == nil {
		metrics.MembershipQueriesTotal.WithLabelValues("not_found").Inc()
		writeJSON(w, http.StatusOK, statusResponse{
			OK:     true,
			Active: false,
			Reason: ReasonNotFound,
		})
		return
	}

	if !record.Active(s.now()) {
		metrics.MembershipQueriesTotal.WithLabelValues("expired").Inc()
		writeJSON(w, http.StatusOK, statusResponse{
			OK:     true,
			Active: false,
			Reason: ReasonExpired,
		})
		return
	}

	metrics.MembershipQueriesTotal.WithLabelValues("active").Inc()
	writeJSON(w, http.StatusOK, statusResponse{
		OK:     true,
		Active: true,
		Record: record,
	})
}
