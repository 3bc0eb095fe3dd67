package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

type OrganizationRepositoryInterface interface {
	Create(o *model.Organization) error
	GetByID(id string) (*model.Organization, error)
	GetByCode(code string) (*model.Organization, error)
	List(offset, limit int) ([]*model.Organization, error)
	Update(o *model.Organization) error
	Delete(id string) (bool, error)
}

type OrganizationRepository struct {
	DB *sql.DB
}

const orgColumns = `id, code, name, COALESCE(description,''), status, created_at, created_by, modified_at, modified_by`

func (r *OrganizationRepository) Create(o *model.Organization) error {
	if o.ID == "" {
		o.ID = "org_" + uuid.NewString()[:8]
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.ModifiedAt = now
	if o.Status == "" {
		o.Status = "active"
	}

	query := `
		INSERT INTO organizations (id, code, name, description, status, created_at, created_by, modified_at, modified_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := r.DB.Exec(query, o.ID, o.Code, o.Name, o.Description, o.Status, o.CreatedAt, o.CreatedBy, o.ModifiedAt, o.ModifiedBy)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("organization", "code %s already exists", o.Code)
	}
	if err != nil {
		return appErrors.NewPersistence("insert organization", err)
	}
	return nil
}

func (r *OrganizationRepository) GetByID(id string) (*model.Organization, error) {
	o, err := scanOrganization(r.DB.QueryRow(`SELECT `+orgColumns+` FROM organizations WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("organization", id)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get organization", err)
	}
	return o, nil
}

func (r *OrganizationRepository) GetByCode(code string) (*model.Organization, error) {
	o, err := scanOrganization(r.DB.QueryRow(`SELECT `+orgColumns+` FROM organizations WHERE code=$1`, code))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("organization", code)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get organization by code", err)
	}
	return o, nil
}

func (r *OrganizationRepository) List(offset, limit int) ([]*model.Organization, error) {
	rows, err := r.DB.Query(`SELECT `+orgColumns+` FROM organizations ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, appErrors.NewPersistence("list organizations", err)
	}
	defer rows.Close()

	orgs := []*model.Organization{}
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, appErrors.NewPersistence("scan organization", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) Update(o *model.Organization) error {
	query := `
		UPDATE organizations
		SET code=$1, name=$2, description=$3, status=$4, modified_at=NOW(), modified_by=$5
		WHERE id=$6
	`
	res, err := r.DB.Exec(query, o.Code, o.Name, o.Description, o.Status, o.ModifiedBy, o.ID)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("organization", "code %s already exists", o.Code)
	}
	if err != nil {
		return appErrors.NewPersistence("update organization", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("organization", o.ID)
	}
	return nil
}

func (r *OrganizationRepository) Delete(id string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM organizations WHERE id=$1`, id)
	if err != nil {
		return false, appErrors.NewPersistence("delete organization", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, appErrors.NewPersistence("delete organization", err)
	}
	return n > 0, nil
}

func scanOrganization(row rowScanner) (*model.Organization, error) {
	o := &model.Organization{}
	err := row.Scan(&o.ID, &o.Code, &o.Name, &o.Description, &o.Status, &o.CreatedAt, &o.CreatedBy, &o.ModifiedAt, &o.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return o, nil
}

var _ OrganizationRepositoryInterface = (*OrganizationRepository)(nil)
