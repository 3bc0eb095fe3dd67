// internal/service/user_campaign_service.go
package service

import (
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

// UserCampaignService maintains the user-campaign assignment table the
// authorization policy reads from.
type UserCampaignService struct {
	UserCampaignRepo repository.UserCampaignRepositoryInterface
	UserRepo         repository.UserRepositoryInterface
	CampaignRepo     repository.CampaignRepositoryInterface
}

// Assign binds a user to a campaign. Both sides must exist and be active;
// duplicates surface as Conflict.
func (s *UserCampaignService) Assign(userID, campaignID, actor string) (*model.UserCampaign, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}
	if _, err := s.CampaignRepo.GetByID(campaignID, false); err != nil {
		return nil, err
	}

	exists, err := s.UserCampaignRepo.Exists(userID, campaignID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, appErrors.NewConflict("user_campaign", "user %s is already assigned to campaign %s", userID, campaignID)
	}

	assoc := &model.UserCampaign{
		UserID:     userID,
		CampaignID: campaignID,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
	if err := s.UserCampaignRepo.Create(assoc); err != nil {
		return nil, err
	}
	return assoc, nil
}

// ReplaceAll swaps the user's complete association set. Callers must pass the
// full desired set; passing an empty list clears every assignment.
func (s *UserCampaignService) ReplaceAll(userID string, campaignIDs []string, actor string) ([]*model.UserCampaign, error) {
	if err := s.requireActiveUser(userID); err != nil {
		return nil, err
	}
	for _, campaignID := range campaignIDs {
		if _, err := s.CampaignRepo.GetByID(campaignID, false); err != nil {
			return nil, err
		}
	}
	return s.UserCampaignRepo.ReplaceAll(userID, campaignIDs, actor)
}

// requireActiveUser rejects assignments for disabled accounts. Associations
// drive campaign visibility, so only active users may hold them.
func (s *UserCampaignService) requireActiveUser(userID string) error {
	user, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Status != "active" {
		return appErrors.NewValidation("user %s is not active", userID)
	}
	return nil
}

// Remove deletes one assignment. A missing pair is not an error.
func (s *UserCampaignService) Remove(userID, campaignID string) (bool, error) {
	return s.UserCampaignRepo.Delete(userID, campaignID)
}

func (s *UserCampaignService) ListByUser(userID string) ([]*model.UserCampaign, error) {
	return s.UserCampaignRepo.ListByUser(userID)
}

func (s *UserCampaignService) ListByCampaign(campaignID string) ([]*model.UserCampaign, error) {
	return s.UserCampaignRepo.ListByCampaign(campaignID)
}
