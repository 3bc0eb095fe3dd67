// internal/service/role_service.go
package service

import (
	"errors"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

type RoleService struct {
	RoleRepo repository.RoleRepositoryInterface
}

type RoleInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	OrgID       *string           `json:"org_id"`
	Permissions model.Permissions `json:"permissions"`
	Status      string            `json:"status"`
}

func (s *RoleService) Create(input RoleInput, actor string) (*model.Role, error) {
	if input.Name == "" {
		return nil, appErrors.NewValidation("name is required")
	}

	// Role names are unique per organization (nil org = global role).
	existing, err := s.RoleRepo.GetByName(input.Name, input.OrgID)
	if err != nil {
		var notFound *appErrors.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if existing != nil {
		return nil, appErrors.NewConflict("role", "name %s already exists in the organization", input.Name)
	}

	role := &model.Role{
		Name:        input.Name,
		Description: input.Description,
		OrgID:       input.OrgID,
		Permissions: input.Permissions,
		Status:      input.Status,
		CreatedBy:   actor,
		ModifiedBy:  actor,
	}
	if err := s.RoleRepo.Create(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Get(id string) (*model.Role, error) {
	return s.RoleRepo.GetByID(id)
}

// List returns org-scoped roles when orgID is set, global roles when
// globalOnly is set, and everything otherwise.
func (s *RoleService) List(orgID string, globalOnly bool) ([]*model.Role, error) {
	if orgID != "" {
		return s.RoleRepo.ListByOrg(orgID)
	}
	if globalOnly {
		return s.RoleRepo.ListGlobal()
	}
	return s.RoleRepo.ListAll()
}

func (s *RoleService) Update(id string, input RoleInput, actor string) (*model.Role, error) {
	role, err := s.RoleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		role.Name = input.Name
	}
	if input.Description != "" {
		role.Description = input.Description
	}
	if input.OrgID != nil {
		role.OrgID = input.OrgID
	}
	if input.Permissions.Read != nil || input.Permissions.Write != nil {
		role.Permissions = input.Permissions
	}
	if input.Status != "" {
		role.Status = input.Status
	}
	role.ModifiedBy = actor

	if err := s.RoleRepo.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *RoleService) Delete(id string) error {
	ok, err := s.RoleRepo.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewNotFound("role", id)
	}
	return nil
}
