// internal/model/organization.go
package model

import "time"

type Organization struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	ModifiedAt  time.Time `db:"modified_at" json:"modified_at"`
	ModifiedBy  string    `db:"modified_by" json:"modified_by"`
}
