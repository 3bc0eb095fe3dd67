// internal/model/user_campaign.go
package model

import "time"

// UserCampaign binds a user to a campaign. Unique per (user, campaign) pair.
type UserCampaign struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	CampaignID string    `db:"campaign_id" json:"campaign_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	CreatedBy  string    `db:"created_by" json:"created_by"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}
