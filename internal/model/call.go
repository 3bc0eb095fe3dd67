// internal/model/call.go
package model

import "time"

// Call records a call dispatched through the external platform.
type Call struct {
	ID               string    `db:"id" json:"id"`
	CallID           string    `db:"call_id" json:"call_id"`
	ToNumber         string    `db:"to_number" json:"to_number"`
	DynamicVariables JSONMap   `db:"dynamic_variables" json:"dynamic_variables"`
	Metadata         JSONMap   `db:"metadata" json:"metadata"`
	CampaignID       string    `db:"campaign_id" json:"campaign_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
