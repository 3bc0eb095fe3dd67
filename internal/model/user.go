// internal/model/user.go
package model

import "time"

type User struct {
	ID             string    `db:"id" json:"id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Email          string    `db:"email" json:"email"`
	MobileNumber   string    `db:"mobile_number" json:"mobile_number,omitempty"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	RoleID         string    `db:"role_id" json:"role_id"`
	Status         string    `db:"status" json:"status"`
	IsSuperuser    bool      `db:"is_superuser" json:"is_superuser"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	CreatedBy      string    `db:"created_by" json:"created_by"`
	ModifiedAt     time.Time `db:"modified_at" json:"modified_at"`
	ModifiedBy     string    `db:"modified_by" json:"modified_by"`
}
