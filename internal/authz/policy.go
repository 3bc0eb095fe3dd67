// internal/authz/policy.go
package authz

import "github.com/voicebridge/voicebridge-backend/internal/model"

// Scope restricts campaign listing queries. It is consumed by the campaign
// repository; every listing path must obtain its scope here, since this is the
// only multi-tenancy boundary in the system.
type Scope struct {
	// All grants visibility over every active campaign.
	All bool
	// UserID limits visibility to campaigns joined to this user via
	// user_campaigns. Ignored when All is set.
	UserID string
}

// VisibleCampaigns returns the scope a user may list campaigns under.
// Superusers see everything; everyone else sees only assigned campaigns.
func VisibleCampaigns(u *model.User) Scope {
	if u.IsSuperuser {
		return Scope{All: true}
	}
	return Scope{UserID: u.ID}
}
