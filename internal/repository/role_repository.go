package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

type RoleRepositoryInterface interface {
	Create(role *model.Role) error
	GetByID(id string) (*model.Role, error)
	GetByName(name string, orgID *string) (*model.Role, error)
	ListByOrg(orgID string) ([]*model.Role, error)
	ListGlobal() ([]*model.Role, error)
	ListAll() ([]*model.Role, error)
	Update(role *model.Role) error
	Delete(id string) (bool, error)
}

type RoleRepository struct {
	DB *sql.DB
}

const roleColumns = `id, name, COALESCE(description,''), org_id, permissions, status,
	created_at, created_by, modified_at, modified_by`

func (r *RoleRepository) Create(role *model.Role) error {
	if role.ID == "" {
		role.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	role.CreatedAt = now
	role.ModifiedAt = now
	if role.Status == "" {
		role.Status = "active"
	}

	query := `
		INSERT INTO roles (id, name, description, org_id, permissions, status, created_at, created_by, modified_at, modified_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.DB.Exec(query,
		role.ID, role.Name, role.Description, role.OrgID, role.Permissions, role.Status,
		role.CreatedAt, role.CreatedBy, role.ModifiedAt, role.ModifiedBy,
	)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("role", "name %s already exists in the organization", role.Name)
	}
	if err != nil {
		return appErrors.NewPersistence("insert role", err)
	}
	return nil
}

func (r *RoleRepository) GetByID(id string) (*model.Role, error) {
	role, err := scanRole(r.DB.QueryRow(`SELECT `+roleColumns+` FROM roles WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("role", id)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get role", err)
	}
	return role, nil
}

// GetByName looks a role up within an organization, or among global roles when
// orgID is nil.
func (r *RoleRepository) GetByName(name string, orgID *string) (*model.Role, error) {
	var row *sql.Row
	if orgID != nil {
		row = r.DB.QueryRow(`SELECT `+roleColumns+` FROM roles WHERE name=$1 AND org_id=$2`, name, *orgID)
	} else {
		row = r.DB.QueryRow(`SELECT `+roleColumns+` FROM roles WHERE name=$1 AND org_id IS NULL`, name)
	}
	role, err := scanRole(row)
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("role", name)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get role by name", err)
	}
	return role, nil
}

func (r *RoleRepository) ListByOrg(orgID string) ([]*model.Role, error) {
	return r.queryRoles(`SELECT `+roleColumns+` FROM roles WHERE org_id=$1 ORDER BY created_at DESC`, orgID)
}

func (r *RoleRepository) ListGlobal() ([]*model.Role, error) {
	return r.queryRoles(`SELECT ` + roleColumns + ` FROM roles WHERE org_id IS NULL ORDER BY created_at DESC`)
}

func (r *RoleRepository) ListAll() ([]*model.Role, error) {
	return r.queryRoles(`SELECT ` + roleColumns + ` FROM roles ORDER BY created_at DESC`)
}

func (r *RoleRepository) Update(role *model.Role) error {
	query := `
		UPDATE roles
		SET name=$1, description=$2, org_id=$3, permissions=$4, status=$5, modified_at=NOW(), modified_by=$6
		WHERE id=$7
	`
	res, err := r.DB.Exec(query,
		role.Name, role.Description, role.OrgID, role.Permissions, role.Status, role.ModifiedBy, role.ID,
	)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("role", "name %s already exists in the organization", role.Name)
	}
	if err != nil {
		return appErrors.NewPersistence("update role", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("role", role.ID)
	}
	return nil
}

func (r *RoleRepository) Delete(id string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM roles WHERE id=$1`, id)
	if err != nil {
		return false, appErrors.NewPersistence("delete role", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, appErrors.NewPersistence("delete role", err)
	}
	return n > 0, nil
}

func (r *RoleRepository) queryRoles(query string, args ...interface{}) ([]*model.Role, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, appErrors.NewPersistence("list roles", err)
	}
	defer rows.Close()

	roles := []*model.Role{}
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, appErrors.NewPersistence("scan role", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func scanRole(row rowScanner) (*model.Role, error) {
	role := &model.Role{}
	err := row.Scan(
		&role.ID, &role.Name, &role.Description, &role.OrgID, &role.Permissions, &role.Status,
		&role.CreatedAt, &role.CreatedBy, &role.ModifiedAt, &role.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return role, nil
}

var _ RoleRepositoryInterface = (*RoleRepository)(nil)
