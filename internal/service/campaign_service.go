// internal/service/campaign_service.go
package service

import (
	"log"
	"time"

	"github.com/voicebridge/voicebridge-backend/internal/authz"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/external"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo     repository.CampaignRepositoryInterface
	UserCampaignRepo repository.UserCampaignRepositoryInterface
	External         external.ClientInterface
}

// CampaignInput carries the caller-supplied campaign fields. Config blocks use
// the external-facing names; the service routes them to their storage columns.
type CampaignInput struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Direction          string         `json:"direction"`
	InboundNumber      string         `json:"inbound_number"`
	CallerIDNumber     string         `json:"caller_id_number"`
	State              string         `json:"state"`
	Version            string         `json:"version"`
	LLM                model.JSONMap  `json:"llm"`
	TTS                model.JSONMap  `json:"tts"`
	STT                model.JSONMap  `json:"stt"`
	Retry              model.JSONMap  `json:"retry"`
	SpeechSetting      model.JSONMap  `json:"speech_setting"`
	KnowledgeBase      model.JSONMap  `json:"knowledge_base"`
	PostCallActions    model.JSONMap  `json:"post_call_actions"`
	LiveActions        model.JSONList `json:"live_actions"`
	Timezone           string         `json:"timezone"`
	CallbackEndpoint   string         `json:"callback_endpoint"`
	AccountID          string         `json:"account_id"`
	TelephonicProvider string         `json:"telephonic_provider"`
	OrgID              *string        `json:"org_id"`
	AllowInterruption  *bool          `json:"allow_interruption"`
}

// CampaignResponse is the externally-visible campaign shape: config blocks
// under their API names, version always a string.
type CampaignResponse struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Direction          string         `json:"direction"`
	InboundNumber      string         `json:"inbound_number,omitempty"`
	CallerIDNumber     string         `json:"caller_id_number,omitempty"`
	State              string         `json:"state"`
	Version            string         `json:"version"`
	LLM                model.JSONMap  `json:"llm"`
	TTS                model.JSONMap  `json:"tts"`
	STT                model.JSONMap  `json:"stt"`
	Retry              model.JSONMap  `json:"retry"`
	SpeechSetting      model.JSONMap  `json:"speech_setting"`
	KnowledgeBase      model.JSONMap  `json:"knowledge_base"`
	PostCallActions    model.JSONMap  `json:"post_call_actions"`
	LiveActions        model.JSONList `json:"live_actions"`
	Timezone           string         `json:"timezone,omitempty"`
	CallbackEndpoint   string         `json:"callback_endpoint,omitempty"`
	AccountID          string         `json:"account_id,omitempty"`
	TelephonicProvider string         `json:"telephonic_provider,omitempty"`
	OrgID              *string        `json:"org_id,omitempty"`
	CreatedBy          string         `json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	IsActive           bool           `json:"is_active"`
	AllowInterruption  bool           `json:"allow_interruption"`
	ExternalID         *string        `json:"external_id,omitempty"`
}

// CampaignResult pairs the committed campaign with the sync outcome.
type CampaignResult struct {
	Campaign            CampaignResponse `json:"campaign"`
	ExternalCampaign    map[string]any   `json:"external_campaign,omitempty"`
	ExternalSyncSuccess bool             `json:"external_sync_success"`
}

var validStates = map[string]bool{
	model.CampaignStateDraft:    true,
	model.CampaignStateTrial:    true,
	model.CampaignStateActive:   true,
	model.CampaignStateArchived: true,
}

// Create persists the campaign locally first, then mirrors it to the external
// platform. A failed sync keeps the local row (there is no prior external
// state to diverge from) and reports the sync error to the caller.
func (s *CampaignService) Create(input CampaignInput, actorID string, isSuperuser bool) (*CampaignResult, error) {
	c, err := normalizeInput(input, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}

	// Non-superusers only see assigned campaigns, so bind the creator to the
	// new campaign up front.
	if !isSuperuser {
		assoc := &model.UserCampaign{
			UserID:     actorID,
			CampaignID: c.ID,
			CreatedBy:  actorID,
			ModifiedBy: actorID,
		}
		if err := s.UserCampaignRepo.Create(assoc); err != nil {
			return nil, err
		}
	}

	result := &CampaignResult{Campaign: toResponse(c)}

	externalResp, err := s.External.CreateCampaign(externalPayload(c))
	if err != nil {
		// Local-first: the row stays for manual remediation, external_id
		// stays null.
		log.Printf("external sync failed for campaign %s: %v", c.ID, err)
		return result, err
	}

	if extID, ok := externalResp["id"].(string); ok && extID != "" {
		if err := s.CampaignRepo.Update(c.ID, map[string]any{"external_id": extID}); err != nil {
			return result, err
		}
		c.ExternalID = &extID
		result.Campaign.ExternalID = &extID
	}

	result.ExternalCampaign = externalResp
	result.ExternalSyncSuccess = true
	return result, nil
}

// Update commits the field changes locally, then syncs. A failed sync rolls
// the local row back to its pre-update state: unlike create, local and
// external previously agreed, and a half-applied update would leave them
// diverged.
func (s *CampaignService) Update(id string, fields map[string]any, actorID string) (*CampaignResult, error) {
	existing, err := s.CampaignRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}

	routed, err := routeFields(fields)
	if err != nil {
		return nil, err
	}

	snapshot := snapshotFields(existing)

	if err := s.CampaignRepo.Update(id, routed); err != nil {
		return nil, err
	}

	updated, err := s.CampaignRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}

	externalID := ""
	if updated.ExternalID != nil {
		externalID = *updated.ExternalID
	}

	externalResp, err := s.External.UpdateCampaign(externalID, externalPayload(updated))
	if err != nil {
		if rbErr := s.CampaignRepo.Update(id, snapshot); rbErr != nil {
			log.Printf("rollback failed for campaign %s: %v", id, rbErr)
		}
		return nil, err
	}

	return &CampaignResult{
		Campaign:            toResponse(updated),
		ExternalCampaign:    externalResp,
		ExternalSyncSuccess: true,
	}, nil
}

// Delete soft-deletes only. No external call is made; deactivating the remote
// counterpart is out of scope.
func (s *CampaignService) Delete(id string) error {
	ok, err := s.CampaignRepo.SoftDelete(id)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewNotFound("campaign", id)
	}
	return nil
}

// Get returns one active campaign in response shape.
func (s *CampaignService) Get(id string) (*CampaignResponse, error) {
	c, err := s.CampaignRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	resp := toResponse(c)
	return &resp, nil
}

// List returns the campaigns visible to the actor. Visibility is decided by
// the authorization policy; this is the only listing path.
func (s *CampaignService) List(actor *model.User, skip, limit int) ([]CampaignResponse, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	scope := authz.VisibleCampaigns(actor)
	campaigns, err := s.CampaignRepo.List(scope, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		responses[i] = toResponse(c)
	}
	return responses, nil
}

func normalizeInput(input CampaignInput, actorID string) (*model.Campaign, error) {
	if input.Name == "" {
		return nil, appErrors.NewValidation("name is required")
	}
	if input.State == "" {
		input.State = model.CampaignStateDraft
	}
	if !validStates[input.State] {
		return nil, appErrors.NewValidation("invalid state %q", input.State)
	}
	if input.Direction == "" {
		input.Direction = "OUTBOUND"
	}
	if input.Version == "" {
		input.Version = "0"
	}
	if input.KnowledgeBase == nil {
		input.KnowledgeBase = model.JSONMap{}
	}

	allowInterruption := true
	if input.AllowInterruption != nil {
		allowInterruption = *input.AllowInterruption
	}

	return &model.Campaign{
		ID:                 input.ID,
		Name:               input.Name,
		Direction:          input.Direction,
		InboundNumber:      input.InboundNumber,
		CallerIDNumber:     input.CallerIDNumber,
		State:              input.State,
		Version:            input.Version,
		LLMConfig:          orEmptyMap(input.LLM),
		TTSConfig:          orEmptyMap(input.TTS),
		STTConfig:          orEmptyMap(input.STT),
		RetryConfig:        orEmptyMap(input.Retry),
		SpeechSetting:      orEmptyMap(input.SpeechSetting),
		KnowledgeBase:      input.KnowledgeBase,
		PostCallActions:    orEmptyMap(input.PostCallActions),
		LiveActions:        orEmptyList(input.LiveActions),
		Timezone:           input.Timezone,
		CallbackEndpoint:   input.CallbackEndpoint,
		AccountID:          input.AccountID,
		TelephonicProvider: input.TelephonicProvider,
		OrgID:              input.OrgID,
		CreatedBy:          actorID,
		AllowInterruption:  allowInterruption,
	}, nil
}

// configColumnFor maps external-facing config block names onto their storage
// columns. Other keys pass through unchanged and are validated by the
// repository's column whitelist.
var configColumnFor = map[string]string{
	"llm":   "llm_config",
	"tts":   "tts_config",
	"stt":   "stt_config",
	"retry": "retry_config",
}

func routeFields(fields map[string]any) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, appErrors.NewValidation("no fields to update")
	}
	routed := make(map[string]any, len(fields))
	for key, val := range fields {
		if key == "created_by" || key == "id" || key == "created_at" || key == "updated_at" || key == "is_active" {
			continue
		}
		if col, ok := configColumnFor[key]; ok {
			m, err := toJSONMap(key, val)
			if err != nil {
				return nil, err
			}
			routed[col] = m
			continue
		}
		switch key {
		case "state":
			state, ok := val.(string)
			if !ok || !validStates[state] {
				return nil, appErrors.NewValidation("invalid state %v", val)
			}
			routed[key] = state
		case "speech_setting", "knowledge_base", "post_call_actions":
			m, err := toJSONMap(key, val)
			if err != nil {
				return nil, err
			}
			routed[key] = m
		case "live_actions":
			l, err := toJSONList(key, val)
			if err != nil {
				return nil, err
			}
			routed[key] = l
		default:
			routed[key] = val
		}
	}
	if len(routed) == 0 {
		return nil, appErrors.NewValidation("no updatable fields supplied")
	}
	return routed, nil
}

func snapshotFields(c *model.Campaign) map[string]any {
	return map[string]any{
		"name":                c.Name,
		"direction":           c.Direction,
		"inbound_number":      c.InboundNumber,
		"caller_id_number":    c.CallerIDNumber,
		"state":               c.State,
		"version":             c.Version,
		"llm_config":          c.LLMConfig,
		"tts_config":          c.TTSConfig,
		"stt_config":          c.STTConfig,
		"timezone":            c.Timezone,
		"post_call_actions":   c.PostCallActions,
		"live_actions":        c.LiveActions,
		"callback_endpoint":   c.CallbackEndpoint,
		"retry_config":        c.RetryConfig,
		"account_id":          c.AccountID,
		"org_id":              c.OrgID,
		"telephonic_provider": c.TelephonicProvider,
		"knowledge_base":      c.KnowledgeBase,
		"allow_interruption":  c.AllowInterruption,
		"speech_setting":      c.SpeechSetting,
		"external_id":         c.ExternalID,
	}
}

// externalPayload flattens the stored record into the platform's field names.
func externalPayload(c *model.Campaign) map[string]any {
	payload := map[string]any{
		"id":                 c.ID,
		"name":               c.Name,
		"direction":          c.Direction,
		"state":              c.State,
		"version":            c.Version,
		"allow_interruption": c.AllowInterruption,
		"llm":                orEmptyMap(c.LLMConfig),
		"tts":                orEmptyMap(c.TTSConfig),
		"stt":                orEmptyMap(c.STTConfig),
		"retry":              orEmptyMap(c.RetryConfig),
		"speech_setting":     orEmptyMap(c.SpeechSetting),
		"post_call_actions":  orEmptyMap(c.PostCallActions),
		"live_actions":       orEmptyList(c.LiveActions),
		"knowledge_base":     orEmptyMap(c.KnowledgeBase),
	}
	if c.AccountID != "" {
		payload["account_id"] = c.AccountID
	}
	payload["telephonic_provider"] = c.TelephonicProvider
	if c.TelephonicProvider == "" {
		payload["telephonic_provider"] = "exotel"
	}
	payload["timezone"] = c.Timezone
	if c.Timezone == "" {
		payload["timezone"] = "UTC"
	}
	return payload
}

func toResponse(c *model.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:                 c.ID,
		Name:               c.Name,
		Direction:          c.Direction,
		InboundNumber:      c.InboundNumber,
		CallerIDNumber:     c.CallerIDNumber,
		State:              c.State,
		Version:            c.Version,
		LLM:                orEmptyMap(c.LLMConfig),
		TTS:                orEmptyMap(c.TTSConfig),
		STT:                orEmptyMap(c.STTConfig),
		Retry:              orEmptyMap(c.RetryConfig),
		SpeechSetting:      orEmptyMap(c.SpeechSetting),
		KnowledgeBase:      orEmptyMap(c.KnowledgeBase),
		PostCallActions:    orEmptyMap(c.PostCallActions),
		LiveActions:        orEmptyList(c.LiveActions),
		Timezone:           c.Timezone,
		CallbackEndpoint:   c.CallbackEndpoint,
		AccountID:          c.AccountID,
		TelephonicProvider: c.TelephonicProvider,
		OrgID:              c.OrgID,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
		IsActive:           c.IsActive,
		AllowInterruption:  c.AllowInterruption,
		ExternalID:         c.ExternalID,
	}
}

func orEmptyMap(m model.JSONMap) model.JSONMap {
	if m == nil {
		return model.JSONMap{}
	}
	return m
}

func orEmptyList(l model.JSONList) model.JSONList {
	if l == nil {
		return model.JSONList{}
	}
	return l
}

func toJSONMap(field string, v any) (model.JSONMap, error) {
	switch m := v.(type) {
	case model.JSONMap:
		return m, nil
	case map[string]any:
		return model.JSONMap(m), nil
	case nil:
		return model.JSONMap{}, nil
	}
	return nil, appErrors.NewValidation("%s must be a JSON object", field)
}

func toJSONList(field string, v any) (model.JSONList, error) {
	switch l := v.(type) {
	case model.JSONList:
		return l, nil
	case []any:
		return model.JSONList(l), nil
	case nil:
		return model.JSONList{}, nil
	}
	return nil, appErrors.NewValidation("%s must be a JSON array", field)
}
