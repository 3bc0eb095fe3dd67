// internal/service/organization_service.go
package service

import (
	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

type OrganizationService struct {
	OrgRepo repository.OrganizationRepositoryInterface
}

type OrganizationInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *OrganizationService) Create(input OrganizationInput, actor string) (*model.Organization, error) {
	if input.Code == "" {
		return nil, appErrors.NewValidation("code is required")
	}
	if input.Name == "" {
		return nil, appErrors.NewValidation("name is required")
	}

	org := &model.Organization{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   actor,
		ModifiedBy:  actor,
	}
	if err := s.OrgRepo.Create(org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Get(id string) (*model.Organization, error) {
	return s.OrgRepo.GetByID(id)
}

func (s *OrganizationService) List(skip, limit int) ([]*model.Organization, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return s.OrgRepo.List(skip, limit)
}

func (s *OrganizationService) Update(id string, input OrganizationInput, actor string) (*model.Organization, error) {
	org, err := s.OrgRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Code != "" {
		org.Code = input.Code
	}
	if input.Name != "" {
		org.Name = input.Name
	}
	if input.Description != "" {
		org.Description = input.Description
	}
	if input.Status != "" {
		org.Status = input.Status
	}
	org.ModifiedBy = actor

	if err := s.OrgRepo.Update(org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Delete(id string) error {
	ok, err := s.OrgRepo.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewNotFound("organization", id)
	}
	return nil
}
