// internal/service/user_service.go
package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
	"github.com/voicebridge/voicebridge-backend/internal/repository"
)

type UserService struct {
	UserRepo repository.UserRepositoryInterface
	RoleRepo repository.RoleRepositoryInterface
}

type UserInput struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	MobileNumber   string  `json:"mobile_number"`
	Password       string  `json:"password"`
	OrganizationID *string `json:"organization_id"`
	RoleID         string  `json:"role_id"`
	IsSuperuser    bool    `json:"is_superuser"`
	Status         string  `json:"status"`
}

func (s *UserService) Create(input UserInput, actor string) (*model.User, error) {
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, appErrors.NewValidation("a valid email is required")
	}
	if input.Password == "" {
		return nil, appErrors.NewValidation("password is required")
	}
	if input.RoleID == "" {
		return nil, appErrors.NewValidation("role_id is required")
	}
	if _, err := s.RoleRepo.GetByID(input.RoleID); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          strings.ToLower(input.Email),
		MobileNumber:   input.MobileNumber,
		HashedPassword: string(hashed),
		OrganizationID: input.OrganizationID,
		RoleID:         input.RoleID,
		IsSuperuser:    input.IsSuperuser,
		Status:         input.Status,
		CreatedBy:      actor,
		ModifiedBy:     actor,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(id string) (*model.User, error) {
	return s.UserRepo.GetByID(id)
}

func (s *UserService) List(skip, limit int) ([]*model.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return s.UserRepo.List(skip, limit)
}

func (s *UserService) Update(id string, input UserInput, actor string) (*model.User, error) {
	user, err := s.UserRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.MobileNumber != "" {
		user.MobileNumber = input.MobileNumber
	}
	if input.OrganizationID != nil {
		user.OrganizationID = input.OrganizationID
	}
	if input.RoleID != "" {
		if _, err := s.RoleRepo.GetByID(input.RoleID); err != nil {
			return nil, err
		}
		user.RoleID = input.RoleID
	}
	if input.Status != "" {
		user.Status = input.Status
	}
	user.ModifiedBy = actor

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
