// internal/model/campaign.go
package model

import "time"

// Campaign lifecycle states.
const (
	CampaignStateDraft    = "DRAFT"
	CampaignStateTrial    = "TRIAL"
	CampaignStateActive   = "ACTIVE"
	CampaignStateArchived = "ARCHIVED"
)

type Campaign struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Direction          string     `db:"direction" json:"direction"`
	InboundNumber      string     `db:"inbound_number" json:"inbound_number,omitempty"`
	CallerIDNumber     string     `db:"caller_id_number" json:"caller_id_number,omitempty"`
	State              string     `db:"state" json:"state"`
	Version            string     `db:"version" json:"version"`
	LLMConfig          JSONMap    `db:"llm_config" json:"llm_config"`
	TTSConfig          JSONMap    `db:"tts_config" json:"tts_config"`
	STTConfig          JSONMap    `db:"stt_config" json:"stt_config"`
	Timezone           string     `db:"timezone" json:"timezone,omitempty"`
	PostCallActions    JSONMap    `db:"post_call_actions" json:"post_call_actions"`
	LiveActions        JSONList   `db:"live_actions" json:"live_actions"`
	CallbackEndpoint   string     `db:"callback_endpoint" json:"callback_endpoint,omitempty"`
	RetryConfig        JSONMap    `db:"retry_config" json:"retry_config"`
	AccountID          string     `db:"account_id" json:"account_id,omitempty"`
	OrgID              *string    `db:"org_id" json:"org_id,omitempty"`
	CreatedBy          string     `db:"created_by" json:"created_by"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
	IsActive           bool       `db:"is_active" json:"is_active"`
	TelephonicProvider string     `db:"telephonic_provider" json:"telephonic_provider,omitempty"`
	KnowledgeBase      JSONMap    `db:"knowledge_base" json:"knowledge_base"`
	AllowInterruption  bool       `db:"allow_interruption" json:"allow_interruption"`
	SpeechSetting      JSONMap    `db:"speech_setting" json:"speech_setting"`
	ExternalID         *string    `db:"external_id" json:"external_id,omitempty"`
}
