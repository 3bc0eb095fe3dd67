package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voicebridge/voicebridge-backend/internal/authz"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id string, includeInactive bool) (*model.Campaign, error)
	List(scope authz.Scope, offset, limit int) ([]*model.Campaign, error)
	Update(id string, fields map[string]any) error
	SoftDelete(id string) (bool, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, direction, COALESCE(inbound_number,''), COALESCE(caller_id_number,''),
	state, version, llm_config, tts_config, stt_config, COALESCE(timezone,''),
	post_call_actions, live_actions, COALESCE(callback_endpoint,''), retry_config,
	COALESCE(account_id,''), org_id, created_by, created_at, updated_at, is_active,
	COALESCE(telephonic_provider,''), knowledge_base, allow_interruption, speech_setting, external_id`

// campaignUpdateColumns is the set of columns a partial update may touch.
// Anything else in the incoming field map is rejected before it reaches SQL.
var campaignUpdateColumns = map[string]bool{
	"name": true, "direction": true, "inbound_number": true, "caller_id_number": true,
	"state": true, "version": true, "llm_config": true, "tts_config": true,
	"stt_config": true, "timezone": true, "post_call_actions": true, "live_actions": true,
	"callback_endpoint": true, "retry_config": true, "account_id": true, "org_id": true,
	"telephonic_provider": true, "knowledge_base": true, "allow_interruption": true,
	"speech_setting": true, "external_id": true,
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.IsActive = true

	query := `
		INSERT INTO campaigns (id, name, direction, inbound_number, caller_id_number, state, version,
			llm_config, tts_config, stt_config, timezone, post_call_actions, live_actions,
			callback_endpoint, retry_config, account_id, org_id, created_by, created_at, updated_at,
			is_active, telephonic_provider, knowledge_base, allow_interruption, speech_setting)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
	`
	_, err := r.DB.Exec(query,
		c.ID, c.Name, c.Direction, c.InboundNumber, c.CallerIDNumber, c.State, c.Version,
		c.LLMConfig, c.TTSConfig, c.STTConfig, c.Timezone, c.PostCallActions, c.LiveActions,
		c.CallbackEndpoint, c.RetryConfig, c.AccountID, c.OrgID, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
		c.IsActive, c.TelephonicProvider, c.KnowledgeBase, c.AllowInterruption, c.SpeechSetting,
	)
	if err != nil {
		return appErrors.NewPersistence("insert campaign", err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(id string, includeInactive bool) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`
	if !includeInactive {
		query += ` AND is_active=true`
	}
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("campaign", id)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get campaign", err)
	}
	return c, nil
}

func (r *CampaignRepository) List(scope authz.Scope, offset, limit int) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE campaigns.is_active=true`
	args := []interface{}{}
	argPos := 1

	if !scope.All {
		query = `SELECT ` + campaignColumns + ` FROM campaigns
			JOIN user_campaigns ON user_campaigns.campaign_id = campaigns.id
			WHERE campaigns.is_active=true AND user_campaigns.user_id=$1`
		args = append(args, scope.UserID)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY campaigns.created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, appErrors.NewPersistence("list campaigns", err)
	}
	defer rows.Close()

	campaigns := []*model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, appErrors.NewPersistence("scan campaign", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// Update mutates only the supplied columns. Unknown columns are rejected.
func (r *CampaignRepository) Update(id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	sets := []string{}
	args := []interface{}{}
	argPos := 1
	for col, val := range fields {
		if !campaignUpdateColumns[col] {
			return appErrors.NewValidation("unknown campaign field %q", col)
		}
		sets = append(sets, fmt.Sprintf("%s=$%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	sets = append(sets, "updated_at=NOW()")

	query := fmt.Sprintf("UPDATE campaigns SET %s WHERE id=$%d", strings.Join(sets, ", "), argPos)
	args = append(args, id)

	res, err := r.DB.Exec(query, args...)
	if err != nil {
		return appErrors.NewPersistence("update campaign", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("campaign", id)
	}
	return nil
}

// SoftDelete flips is_active off. Rows are never physically removed so call
// history keeps a valid campaign reference.
func (r *CampaignRepository) SoftDelete(id string) (bool, error) {
	res, err := r.DB.Exec(`UPDATE campaigns SET is_active=false, updated_at=NOW() WHERE id=$1 AND is_active=true`, id)
	if err != nil {
		return false, appErrors.NewPersistence("soft delete campaign", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, appErrors.NewPersistence("soft delete campaign", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Direction, &c.InboundNumber, &c.CallerIDNumber,
		&c.State, &c.Version, &c.LLMConfig, &c.TTSConfig, &c.STTConfig, &c.Timezone,
		&c.PostCallActions, &c.LiveActions, &c.CallbackEndpoint, &c.RetryConfig,
		&c.AccountID, &c.OrgID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt, &c.IsActive,
		&c.TelephonicProvider, &c.KnowledgeBase, &c.AllowInterruption, &c.SpeechSetting, &c.ExternalID,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
