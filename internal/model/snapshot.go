package model

import "time"

// EmployeeSnapshot is the last employee list fetched for one session owner.
// It is read only when a live fetch fails.
type EmployeeSnapshot struct {
	Owner     string    `gorm:"primaryKey;size:64" json:"owner"`
	Payload   string    `gorm:"type:text;not null" json:"-"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}
