package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/service"
)

func newCampaignService() (*service.CampaignService, *fakeCampaignRepo, *fakeUserCampaignRepo, *fakeExternalClient) {
	campaignRepo := newFakeCampaignRepo()
	userCampaignRepo := &fakeUserCampaignRepo{}
	client := &fakeExternalClient{createResp: map[string]any{"id": "ext-1"}, updateResp: map[string]any{"id": "ext-1"}}
	svc := &service.CampaignService{
		CampaignRepo:     campaignRepo,
		UserCampaignRepo: userCampaignRepo,
		External:         client,
	}
	return svc, campaignRepo, userCampaignRepo, client
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, _, client := newCampaignService()

	result, err := svc.Create(service.CampaignInput{Name: "support line"}, "user-1", true)
	require.NoError(t, err)

	assert.Equal(t, "DRAFT", result.Campaign.State)
	assert.Equal(t, "OUTBOUND", result.Campaign.Direction)
	assert.Equal(t, "0", result.Campaign.Version)
	assert.True(t, result.Campaign.AllowInterruption)
	assert.NotNil(t, result.Campaign.KnowledgeBase)
	assert.True(t, result.ExternalSyncSuccess)

	require.Len(t, client.createPayloads, 1)
	payload := client.createPayloads[0]
	assert.Equal(t, "exotel", payload["telephonic_provider"])
	assert.Equal(t, "UTC", payload["timezone"])
}

func TestCreateBindsCreatorForNonSuperuser(t *testing.T) {
	svc, _, userCampaignRepo, _ := newCampaignService()

	result, err := svc.Create(service.CampaignInput{Name: "sales"}, "user-1", false)
	require.NoError(t, err)

	require.Len(t, userCampaignRepo.associations, 1)
	assert.Equal(t, "user-1", userCampaignRepo.associations[0].UserID)
	assert.Equal(t, result.Campaign.ID, userCampaignRepo.associations[0].CampaignID)
}

func TestCreateSuperuserSkipsAssociation(t *testing.T) {
	svc, _, userCampaignRepo, _ := newCampaignService()

	_, err := svc.Create(service.CampaignInput{Name: "sales"}, "admin-1", true)
	require.NoError(t, err)
	assert.Empty(t, userCampaignRepo.associations)
}

func TestCreateRejectsInvalidState(t *testing.T) {
	svc, repo, _, _ := newCampaignService()

	_, err := svc.Create(service.CampaignInput{Name: "x", State: "RUNNING"}, "user-1", true)

	var vErr *appErrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Empty(t, repo.campaigns)
}

func TestCreateSyncFailureKeepsLocalRow(t *testing.T) {
	svc, repo, _, client := newCampaignService()
	client.createErr = appErrors.NewExternalSync(500, "platform down")

	result, err := svc.Create(service.CampaignInput{Name: "sales"}, "user-1", true)

	var syncErr *appErrors.ExternalSyncError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, 500, syncErr.Status)

	// Local-first: the row survives the failed sync with no external id.
	require.NotNil(t, result)
	assert.False(t, result.ExternalSyncSuccess)
	stored, getErr := repo.GetByID(result.Campaign.ID, false)
	require.NoError(t, getErr)
	assert.Nil(t, stored.ExternalID)
}

func TestCreatePersistsExternalID(t *testing.T) {
	svc, repo, _, _ := newCampaignService()

	result, err := svc.Create(service.CampaignInput{Name: "sales"}, "user-1", true)
	require.NoError(t, err)

	require.NotNil(t, result.Campaign.ExternalID)
	assert.Equal(t, "ext-1", *result.Campaign.ExternalID)

	stored, err := repo.GetByID(result.Campaign.ID, false)
	require.NoError(t, err)
	require.NotNil(t, stored.ExternalID)
	assert.Equal(t, "ext-1", *stored.ExternalID)
}

func TestUpdateRoutesConfigBlocks(t *testing.T) {
	svc, repo, _, _ := newCampaignService()
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "sales", IsActive: true}

	_, err := svc.Update("c1", map[string]any{
		"llm":   map[string]any{"model": "fast"},
		"name":  "renamed",
		"id":    "c1",
		"state": "ACTIVE",
	}, "user-1")
	require.NoError(t, err)

	require.NotEmpty(t, repo.updates)
	routed := repo.updates[0]
	assert.Contains(t, routed, "llm_config")
	assert.NotContains(t, routed, "llm")
	assert.NotContains(t, routed, "id")
	assert.Equal(t, "renamed", routed["name"])
}

func TestUpdateRejectsInvalidState(t *testing.T) {
	svc, repo, _, _ := newCampaignService()
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "sales", State: "DRAFT", IsActive: true}

	_, err := svc.Update("c1", map[string]any{"state": "RUNNING"}, "user-1")

	var vErr *appErrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Empty(t, repo.updates)
	assert.Equal(t, "DRAFT", repo.campaigns["c1"].State)
}

func TestUpdateRejectsMalformedConfigBlocks(t *testing.T) {
	svc, repo, _, _ := newCampaignService()
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "sales", IsActive: true}

	var vErr *appErrors.ValidationError

	_, err := svc.Update("c1", map[string]any{"llm": "oops"}, "user-1")
	require.True(t, errors.As(err, &vErr))

	_, err = svc.Update("c1", map[string]any{"knowledge_base": 42}, "user-1")
	require.True(t, errors.As(err, &vErr))

	_, err = svc.Update("c1", map[string]any{"live_actions": "oops"}, "user-1")
	require.True(t, errors.As(err, &vErr))

	assert.Empty(t, repo.updates)
}

func TestUpdateRollsBackOnSyncFailure(t *testing.T) {
	svc, repo, _, client := newCampaignService()
	extID := "ext-9"
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "before", State: "DRAFT", IsActive: true, ExternalID: &extID}
	client.updateErr = appErrors.NewExternalSync(502, "gateway error")

	_, err := svc.Update("c1", map[string]any{"name": "after"}, "user-1")

	var syncErr *appErrors.ExternalSyncError
	require.True(t, errors.As(err, &syncErr))

	// Two repo writes: the update itself, then the compensating snapshot.
	require.Len(t, repo.updates, 2)
	assert.Equal(t, "after", repo.updates[0]["name"])
	assert.Equal(t, "before", repo.updates[1]["name"])
	assert.Equal(t, "before", repo.campaigns["c1"].Name)
}

func TestUpdatePassesExternalID(t *testing.T) {
	svc, repo, _, client := newCampaignService()
	extID := "ext-9"
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "sales", IsActive: true, ExternalID: &extID}

	_, err := svc.Update("c1", map[string]any{"name": "renamed"}, "user-1")
	require.NoError(t, err)

	require.Len(t, client.updatedExternalIDs, 1)
	assert.Equal(t, "ext-9", client.updatedExternalIDs[0])
}

func TestUpdateUnknownCampaign(t *testing.T) {
	svc, _, _, _ := newCampaignService()

	_, err := svc.Update("missing", map[string]any{"name": "x"}, "user-1")

	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}

func TestDeleteSoftDeletes(t *testing.T) {
	svc, repo, _, _ := newCampaignService()
	repo.campaigns["c1"] = &model.Campaign{ID: "c1", Name: "sales", IsActive: true}

	require.NoError(t, svc.Delete("c1"))
	assert.False(t, repo.campaigns["c1"].IsActive)

	// Deleting again reports not found rather than silently succeeding.
	err := svc.Delete("c1")
	var nfErr *appErrors.NotFoundError
	require.True(t, errors.As(err, &nfErr))
}

func TestListScopesBySuperuserStatus(t *testing.T) {
	svc, repo, _, _ := newCampaignService()

	_, err := svc.List(&model.User{ID: "admin-1", IsSuperuser: true}, 0, 10)
	require.NoError(t, err)
	assert.True(t, repo.lastScope.All)

	_, err = svc.List(&model.User{ID: "user-1"}, 0, 10)
	require.NoError(t, err)
	assert.False(t, repo.lastScope.All)
	assert.Equal(t, "user-1", repo.lastScope.UserID)
}
