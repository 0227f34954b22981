package handlers

import (
	"net/http"
	"time"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type healthResponse struct {
	Status           string    `json:"status"`
	Version          string    `json:"version"`
	Timestamp        time.Time `json:"timestamp"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	RequestsServed   int64     `json:"requests_served"`
	MembershipsSaved int64     `json:"memberships_saved"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Version:          Version,
		Timestamp:        time.Now().UTC(),
		UptimeSeconds:    int64(time.Since(s.startedAt).Seconds()),
		RequestsServed:   s.requestsServed.Load(),
		MembershipsSaved: s.membershipsSaved.Load(),
	})
}
