package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

type CallRepositoryInterface interface {
	Create(c *model.Call) error
	GetByCallID(callID string) (*model.Call, error)
	ListByCampaign(campaignID string, offset, limit int) ([]*model.Call, error)
}

type CallRepository struct {
	DB *sql.DB
}

const callColumns = `id, call_id, to_number, dynamic_variables, metadata, campaign_id, created_at, updated_at`

func (r *CallRepository) Create(c *model.Call) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	query := `
		INSERT INTO calls (id, call_id, to_number, dynamic_variables, metadata, campaign_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	_, err := r.DB.Exec(query, c.ID, c.CallID, c.ToNumber, c.DynamicVariables, c.Metadata, c.CampaignID, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("call", "call_id %s already recorded", c.CallID)
	}
	if err != nil {
		return appErrors.NewPersistence("insert call", err)
	}
	return nil
}

func (r *CallRepository) GetByCallID(callID string) (*model.Call, error) {
	c := &model.Call{}
	err := r.DB.QueryRow(`SELECT `+callColumns+` FROM calls WHERE call_id=$1`, callID).Scan(
		&c.ID, &c.CallID, &c.ToNumber, &c.DynamicVariables, &c.Metadata, &c.CampaignID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("call", callID)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get call", err)
	}
	return c, nil
}

func (r *CallRepository) ListByCampaign(campaignID string, offset, limit int) ([]*model.Call, error) {
	query := `SELECT ` + callColumns + ` FROM calls WHERE campaign_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(query, campaignID, limit, offset)
	if err != nil {
		return nil, appErrors.NewPersistence("list calls", err)
	}
	defer rows.Close()

	calls := []*model.Call{}
	for rows.Next() {
		c := &model.Call{}
		if err := rows.Scan(&c.ID, &c.CallID, &c.ToNumber, &c.DynamicVariables, &c.Metadata, &c.CampaignID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, appErrors.NewPersistence("scan call", err)
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

var _ CallRepositoryInterface = (*CallRepository)(nil)
