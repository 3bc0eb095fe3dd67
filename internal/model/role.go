// internal/model/role.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Permissions is the {read, write} action-list form. Older rows stored a flat
// list of action names; UnmarshalJSON migrates that shape on the way in so the
// rest of the code only ever sees the tagged form.
type Permissions struct {
	Read  []string `json:"read"`
	Write []string `json:"write"`
}

func (p *Permissions) UnmarshalJSON(data []byte) error {
	type tagged struct {
		Read  []string `json:"read"`
		Write []string `json:"write"`
	}
	var t tagged
	if err := json.Unmarshal(data, &t); err == nil {
		p.Read = t.Read
		p.Write = t.Write
		if p.Read == nil {
			p.Read = []string{}
		}
		if p.Write == nil {
			p.Write = []string{}
		}
		return nil
	}

	// Legacy shape: a bare list of readable actions.
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("permissions must be an object or a list: %w", err)
	}
	p.Read = legacy
	p.Write = []string{}
	return nil
}

func (p Permissions) Value() (driver.Value, error) {
	if p.Read == nil {
		p.Read = []string{}
	}
	if p.Write == nil {
		p.Write = []string{}
	}
	return json.Marshal(struct {
		Read  []string `json:"read"`
		Write []string `json:"write"`
	}{p.Read, p.Write})
}

func (p *Permissions) Scan(src any) error {
	if src == nil {
		*p = Permissions{Read: []string{}, Write: []string{}}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Permissions", src)
	}
	if len(data) == 0 {
		*p = Permissions{Read: []string{}, Write: []string{}}
		return nil
	}
	return p.UnmarshalJSON(data)
}

type Role struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description,omitempty"`
	OrgID       *string     `db:"org_id" json:"org_id,omitempty"`
	Permissions Permissions `db:"permissions" json:"permissions"`
	Status      string      `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	CreatedBy   string      `db:"created_by" json:"created_by"`
	ModifiedAt  time.Time   `db:"modified_at" json:"modified_at"`
	ModifiedBy  string      `db:"modified_by" json:"modified_by"`
}
