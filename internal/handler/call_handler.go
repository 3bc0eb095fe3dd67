// internal/handler/call_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

type CallHandler struct {
	Service *service.CallService
}

// DispatchCall enqueues an outbound call. The worker talks to the platform;
// the API returns as soon as the job is accepted.
func (h *CallHandler) DispatchCall(w http.ResponseWriter, r *http.Request) {
	var job service.DispatchJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		writeError(w, appErrors.NewValidation("invalid request body: %v", err))
		return
	}

	if err := h.Service.Dispatch(job); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"campaign_id": job.CampaignID,
		"to_number":   job.ToNumber,
		"status":      "queued",
	})
}

func (h *CallHandler) ListCampaignCalls(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")

	calls, err := h.Service.ListByCampaign(campaignID, queryInt(r, "skip", 0), queryInt(r, "limit", 100))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": calls})
}

// ListExternalCalls proxies the platform's call log for a campaign.
func (h *CallHandler) ListExternalCalls(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	q := r.URL.Query()

	page, err := h.Service.ListExternal(campaignID, q.Get("start"), q.Get("end"), queryInt(r, "page_size", 50), q.Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CallHandler) GetRecording(w http.ResponseWriter, r *http.Request) {
	recording, err := h.Service.RecordingURL(chi.URLParam(r, "callID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recording)
}
