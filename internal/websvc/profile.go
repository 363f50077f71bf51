package websvc

import (
	"net/http"
	"time"

	"github.com/ShopCraft/CatalogAdmin/internal/auth"
	"github.com/ShopCraft/CatalogAdmin/internal/version"
)

// respGetProfile is the response to the GET /control/profile HTTP API.
type respGetProfile struct {
	// SessionExpires is nil when authentication is disabled.
	SessionExpires *time.Time `json:"session_expires,omitempty"`

	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// handleGetProfile is the handler for the GET /control/profile HTTP API.
func (svc *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := &respGetProfile{}
	if u, s, ok := auth.UserFromContext(ctx); ok {
		resp.Name = string(u.Login)
		resp.ID = int64(u.ID)

		expires := s.Expires.UTC()
		resp.SessionExpires = &expires
	}

	writeJSONOKResponse(ctx, svc.logger, w, r, resp)
}

// respGetStatus is the response to the GET /control/status HTTP API.
type respGetStatus struct {
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

// handleGetStatus is the handler for the GET /control/status HTTP API.
func (svc *Service) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	writeJSONOKResponse(ctx, svc.logger, w, r, &respGetStatus{
		Version:  version.Version(),
		Sessions: svc.sessions.Len(),
	})
}
