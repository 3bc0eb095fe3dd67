package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	appErrors "github.com/voicebridge/voicebridge-backend/internal/errors"
	"github.com/voicebridge/voicebridge-backend/internal/model"
)

// UserRepositoryInterface defines methods used by services and middleware.
type UserRepositoryInterface interface {
	Create(u *model.User) error
	GetByID(id string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	List(offset, limit int) ([]*model.User, error)
	Update(u *model.User) error
}

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, first_name, last_name, email, COALESCE(mobile_number,''), hashed_password,
	organization_id, role_id, status, is_superuser, created_at, created_by, modified_at, modified_by`

func (r *UserRepository) Create(u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.ModifiedAt = now
	if u.Status == "" {
		u.Status = "active"
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, mobile_number, hashed_password,
			organization_id, role_id, status, is_superuser, created_at, created_by, modified_at, modified_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	_, err := r.DB.Exec(query,
		u.ID, u.FirstName, u.LastName, u.Email, u.MobileNumber, u.HashedPassword,
		u.OrganizationID, u.RoleID, u.Status, u.IsSuperuser, u.CreatedAt, u.CreatedBy, u.ModifiedAt, u.ModifiedBy,
	)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("user", "email %s already registered", u.Email)
	}
	if err != nil {
		return appErrors.NewPersistence("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("user", id)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get user", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.DB.QueryRow(query, email))
	if err == sql.ErrNoRows {
		return nil, appErrors.NewNotFound("user", email)
	}
	if err != nil {
		return nil, appErrors.NewPersistence("get user by email", err)
	}
	return u, nil
}

func (r *UserRepository) List(offset, limit int) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, appErrors.NewPersistence("list users", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, appErrors.NewPersistence("scan user", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(u *model.User) error {
	query := `
		UPDATE users
		SET first_name=$1, last_name=$2, mobile_number=$3, organization_id=$4, role_id=$5,
			status=$6, is_superuser=$7, modified_at=NOW(), modified_by=$8
		WHERE id=$9
	`
	res, err := r.DB.Exec(query,
		u.FirstName, u.LastName, u.MobileNumber, u.OrganizationID, u.RoleID,
		u.Status, u.IsSuperuser, u.ModifiedBy, u.ID,
	)
	if err != nil {
		return appErrors.NewPersistence("update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewNotFound("user", u.ID)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.MobileNumber, &u.HashedPassword,
		&u.OrganizationID, &u.RoleID, &u.Status, &u.IsSuperuser,
		&u.CreatedAt, &u.CreatedBy, &u.ModifiedAt, &u.ModifiedBy,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
