package service_test

import (
	"fmt"

	"github.com/voicebridge/voicebridge-backend/internal/authz"
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/external"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

// Hand-rolled fakes shared by the service tests.

type fakeCampaignRepo struct {
	campaigns map[string]*model.Campaign
	updates   []map[string]any
	lastScope authz.Scope
	createErr error
	updateErr error
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[string]*model.Campaign{}}
}

func (r *fakeCampaignRepo) Create(c *model.Campaign) error {
	if r.createErr != nil {
		return r.createErr
	}
	if c.ID == "" {
		c.ID = "generated-id"
	}
	c.IsActive = true
	r.campaigns[c.ID] = c
	return nil
}

func (r *fakeCampaignRepo) GetByID(id string, includeInactive bool) (*model.Campaign, error) {
	c, ok := r.campaigns[id]
	if !ok || (!includeInactive && !c.IsActive) {
		return nil, appErrors.NewNotFound("campaign", id)
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCampaignRepo) List(scope authz.Scope, offset, limit int) ([]*model.Campaign, error) {
	r.lastScope = scope
	out := []*model.Campaign{}
	for _, c := range r.campaigns {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCampaignRepo) Update(id string, fields map[string]any) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	c, ok := r.campaigns[id]
	if !ok {
		return appErrors.NewNotFound("campaign", id)
	}
	r.updates = append(r.updates, fields)
	if name, ok := fields["name"].(string); ok {
		c.Name = name
	}
	if state, ok := fields["state"].(string); ok {
		c.State = state
	}
	if extID, ok := fields["external_id"].(string); ok {
		c.ExternalID = &extID
	}
	return nil
}

func (r *fakeCampaignRepo) SoftDelete(id string) (bool, error) {
	c, ok := r.campaigns[id]
	if !ok || !c.IsActive {
		return false, nil
	}
	c.IsActive = false
	return true, nil
}

type fakeUserCampaignRepo struct {
	associations []*model.UserCampaign
	replacedWith []string
	createErr    error
}

func (r *fakeUserCampaignRepo) Create(uc *model.UserCampaign) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.associations = append(r.associations, uc)
	return nil
}

func (r *fakeUserCampaignRepo) Exists(userID, campaignID string) (bool, error) {
	for _, uc := range r.associations {
		if uc.UserID == userID && uc.CampaignID == campaignID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserCampaignRepo) ListByUser(userID string) ([]*model.UserCampaign, error) {
	out := []*model.UserCampaign{}
	for _, uc := range r.associations {
		if uc.UserID == userID {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (r *fakeUserCampaignRepo) ListByCampaign(campaignID string) ([]*model.UserCampaign, error) {
	out := []*model.UserCampaign{}
	for _, uc := range r.associations {
		if uc.CampaignID == campaignID {
			out = append(out, uc)
		}
	}
	return out, nil
}

func (r *fakeUserCampaignRepo) ReplaceAll(userID string, campaignIDs []string, actor string) ([]*model.UserCampaign, error) {
	r.replacedWith = campaignIDs
	kept := []*model.UserCampaign{}
	for _, uc := range r.associations {
		if uc.UserID != userID {
			kept = append(kept, uc)
		}
	}
	created := []*model.UserCampaign{}
	for _, campaignID := range campaignIDs {
		uc := &model.UserCampaign{UserID: userID, CampaignID: campaignID, CreatedBy: actor, ModifiedBy: actor}
		kept = append(kept, uc)
		created = append(created, uc)
	}
	r.associations = kept
	return created, nil
}

func (r *fakeUserCampaignRepo) Delete(userID, campaignID string) (bool, error) {
	for i, uc := range r.associations {
		if uc.UserID == userID && uc.CampaignID == campaignID {
			r.associations = append(r.associations[:i], r.associations[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users     map[string]*model.User
	created   []*model.User
	createErr error
}

func (r *fakeUserRepo) Create(u *model.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, u)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, appErrors.NewNotFound("user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, appErrors.NewNotFound("user", email)
}

func (r *fakeUserRepo) List(offset, limit int) ([]*model.User, error) { return nil, nil }
func (r *fakeUserRepo) Update(u *model.User) error                    { return nil }

type fakeRoleRepo struct {
	roles map[string]*model.Role
}

func (r *fakeRoleRepo) Create(role *model.Role) error {
	if role.ID == "" {
		role.ID = fmt.Sprintf("role-%d", len(r.roles)+1)
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetByID(id string) (*model.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, appErrors.NewNotFound("role", id)
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(name string, orgID *string) (*model.Role, error) {
	for _, role := range r.roles {
		if role.Name != name {
			continue
		}
		if orgID == nil && role.OrgID == nil {
			return role, nil
		}
		if orgID != nil && role.OrgID != nil && *orgID == *role.OrgID {
			return role, nil
		}
	}
	return nil, appErrors.NewNotFound("role", name)
}

func (r *fakeRoleRepo) ListByOrg(orgID string) ([]*model.Role, error) { return nil, nil }
func (r *fakeRoleRepo) ListGlobal() ([]*model.Role, error)            { return nil, nil }
func (r *fakeRoleRepo) ListAll() ([]*model.Role, error)               { return nil, nil }
func (r *fakeRoleRepo) Update(role *model.Role) error                 { return nil }
func (r *fakeRoleRepo) Delete(id string) (bool, error) {
	if _, ok := r.roles[id]; !ok {
		return false, nil
	}
	delete(r.roles, id)
	return true, nil
}

type fakeCallRepo struct {
	calls     []*model.Call
	createErr error
}

func (r *fakeCallRepo) Create(c *model.Call) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.calls = append(r.calls, c)
	return nil
}

func (r *fakeCallRepo) GetByCallID(callID string) (*model.Call, error) {
	for _, c := range r.calls {
		if c.CallID == callID {
			return c, nil
		}
	}
	return nil, appErrors.NewNotFound("call", callID)
}

func (r *fakeCallRepo) ListByCampaign(campaignID string, offset, limit int) ([]*model.Call, error) {
	out := []*model.Call{}
	for _, c := range r.calls {
		if c.CampaignID == campaignID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeExternalClient struct {
	loginErr       error
	createResp     map[string]any
	createErr      error
	updateResp     map[string]any
	updateErr      error
	createCallResp map[string]any
	createCallErr  error
	listPage       *external.CallListPage
	recording      *external.Recording

	createPayloads     []map[string]any
	updatePayloads     []map[string]any
	updatedExternalIDs []string
	callPayloads       []map[string]any
}

func (c *fakeExternalClient) Login() (string, error) {
	if c.loginErr != nil {
		return "", c.loginErr
	}
	return "token", nil
}

func (c *fakeExternalClient) CreateCampaign(payload map[string]any) (map[string]any, error) {
	c.createPayloads = append(c.createPayloads, payload)
	if c.createErr != nil {
		return nil, c.createErr
	}
	return c.createResp, nil
}

func (c *fakeExternalClient) UpdateCampaign(externalID string, payload map[string]any) (map[string]any, error) {
	c.updatedExternalIDs = append(c.updatedExternalIDs, externalID)
	c.updatePayloads = append(c.updatePayloads, payload)
	if c.updateErr != nil {
		return nil, c.updateErr
	}
	return c.updateResp, nil
}

func (c *fakeExternalClient) CreateCall(payload map[string]any) (map[string]any, error) {
	c.callPayloads = append(c.callPayloads, payload)
	if c.createCallErr != nil {
		return nil, c.createCallErr
	}
	return c.createCallResp, nil
}

func (c *fakeExternalClient) ListCalls(campaignID, start, end string, pageSize int, cursor string) (*external.CallListPage, error) {
	return c.listPage, nil
}

func (c *fakeExternalClient) RecordingURL(campaignID, callID string) (*external.Recording, error) {
	return c.recording, nil
}

type fakeQueue struct {
	topics     []string
	payloads   []any
	publishErr error
}

func (q *fakeQueue) Publish(topic string, payload any) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.topics = append(q.topics, topic)
	q.payloads = append(q.payloads, payload)
	return nil
}

var (
	_ repository.CampaignRepositoryInterface     = (*fakeCampaignRepo)(nil)
	_ repository.UserCampaignRepositoryInterface = (*fakeUserCampaignRepo)(nil)
	_ repository.UserRepositoryInterface         = (*fakeUserRepo)(nil)
	_ repository.RoleRepositoryInterface         = (*fakeRoleRepo)(nil)
	_ repository.CallRepositoryInterface         = (*fakeCallRepo)(nil)
	_ external.ClientInterface                   = (*fakeExternalClient)(nil)
)
