// internal/handler/user_campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voicebridge/voicebridge-backend/internal/auth"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

type UserCampaignHandler struct {
	Service *service.UserCampaignService
}

func (h *UserCampaignHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		UserID     string `json:"user_id"`
		CampaignID string `json:"campaign_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}
	if body.UserID == "" || body.CampaignID == "" {
		writeError(w, appErrors.NewValidation("user_id and campaign_id are required"))
		return
	}

	assoc, err := h.Service.Assign(body.UserID, body.CampaignID, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assoc)
}

// ReplaceAll swaps a user's full assignment set; the body carries the complete
// desired list of campaign ids.
func (h *UserCampaignHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	userID := chi.URLParam(r, "id")

	var body struct {
		CampaignIDs []string `json:"campaign_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}
	if body.CampaignIDs == nil {
		body.CampaignIDs = []string{}
	}

	associations, err := h.Service.ReplaceAll(userID, body.CampaignIDs, actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": associations})
}

func (h *UserCampaignHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	campaignID := chi.URLParam(r, "campaignID")

	removed, err := h.Service.Remove(userID, campaignID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *UserCampaignHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	associations, err := h.Service.ListByUser(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": associations})
}

func (h *UserCampaignHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	associations, err := h.Service.ListByCampaign(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": associations})
}
