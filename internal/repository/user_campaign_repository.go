package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

type UserCampaignRepositoryInterface interface {
	Create(uc *model.UserCampaign) error
	Exists(userID, campaignID string) (bool, error)
	ListByUser(userID string) ([]*model.UserCampaign, error)
	ListByCampaign(campaignID string) ([]*model.UserCampaign, error)
	ReplaceAll(userID string, campaignIDs []string, actor string) ([]*model.UserCampaign, error)
	Delete(userID, campaignID string) (bool, error)
}

type UserCampaignRepository struct {
	DB *sql.DB
}

const userCampaignColumns = `id, user_id, campaign_id, created_at, created_by, modified_at, modified_by`

func (r *UserCampaignRepository) Create(uc *model.UserCampaign) error {
	if uc.ID == "" {
		uc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	uc.CreatedAt = now
	uc.ModifiedAt = now

	query := `
		INSERT INTO user_campaigns (id, user_id, campaign_id, created_at, created_by, modified_at, modified_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := r.DB.Exec(query, uc.ID, uc.UserID, uc.CampaignID, uc.CreatedAt, uc.CreatedBy, uc.ModifiedAt, uc.ModifiedBy)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("user_campaign", "user %s is already assigned to campaign %s", uc.UserID, uc.CampaignID)
	}
	if err != nil {
		return appErrors.NewPersistence("insert user_campaign", err)
	}
	return nil
}

func (r *UserCampaignRepository) Exists(userID, campaignID string) (bool, error) {
	var count int
	err := r.DB.QueryRow(
		`SELECT COUNT(*) FROM user_campaigns WHERE user_id=$1 AND campaign_id=$2`,
		userID, campaignID,
	).Scan(&count)
	if err != nil {
		return false, appErrors.NewPersistence("check user_campaign", err)
	}
	return count > 0, nil
}

func (r *UserCampaignRepository) ListByUser(userID string) ([]*model.UserCampaign, error) {
	return r.queryAssociations(`SELECT `+userCampaignColumns+` FROM user_campaigns WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *UserCampaignRepository) ListByCampaign(campaignID string) ([]*model.UserCampaign, error) {
	return r.queryAssociations(`SELECT `+userCampaignColumns+` FROM user_campaigns WHERE campaign_id=$1 ORDER BY created_at DESC`, campaignID)
}

// ReplaceAll swaps the user's entire association set in one transaction. The
// caller passes the complete desired set; an empty slice clears everything.
func (r *UserCampaignRepository) ReplaceAll(userID string, campaignIDs []string, actor string) ([]*model.UserCampaign, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, appErrors.NewPersistence("begin replace associations", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_campaigns WHERE user_id=$1`, userID); err != nil {
		return nil, appErrors.NewPersistence("clear associations", err)
	}

	now := time.Now().UTC()
	created := []*model.UserCampaign{}
	for _, campaignID := range campaignIDs {
		uc := &model.UserCampaign{
			ID:         uuid.NewString(),
			UserID:     userID,
			CampaignID: campaignID,
			CreatedAt:  now,
			CreatedBy:  actor,
			ModifiedAt: now,
			ModifiedBy: actor,
		}
		_, err := tx.Exec(
			`INSERT INTO user_campaigns (id, user_id, campaign_id, created_at, created_by, modified_at, modified_by)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uc.ID, uc.UserID, uc.CampaignID, uc.CreatedAt, uc.CreatedBy, uc.ModifiedAt, uc.ModifiedBy,
		)
		if err != nil {
			return nil, appErrors.NewPersistence("insert association", err)
		}
		created = append(created, uc)
	}

	if err := tx.Commit(); err != nil {
		return nil, appErrors.NewPersistence("commit replace associations", err)
	}
	return created, nil
}

// Delete removes one association. Returns false, not an error, when nothing
// matched.
func (r *UserCampaignRepository) Delete(userID, campaignID string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM user_campaigns WHERE user_id=$1 AND campaign_id=$2`, userID, campaignID)
	if err != nil {
		return false, appErrors.NewPersistence("delete user_campaign", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, appErrors.NewPersistence("delete user_campaign", err)
	}
	return n > 0, nil
}

func (r *UserCampaignRepository) queryAssociations(query string, args ...interface{}) ([]*model.UserCampaign, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, appErrors.NewPersistence("list user_campaigns", err)
	}
	defer rows.Close()

	associations := []*model.UserCampaign{}
	for rows.Next() {
		uc := &model.UserCampaign{}
		if err := rows.Scan(&uc.ID, &uc.UserID, &uc.CampaignID, &uc.CreatedAt, &uc.CreatedBy, &uc.ModifiedAt, &uc.ModifiedBy); err != nil {
			return nil, appErrors.NewPersistence("scan user_campaign", err)
		}
		associations = append(associations, uc)
	}
	return associations, rows.Err()
}

var _ UserCampaignRepositoryInterface = (*UserCampaignRepository)(nil)
