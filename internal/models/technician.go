package models

import "time"

// Technician represents a field service user allowed to submit QA forms.
type Technician struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	// Must not carry a gorm default tag: gorm omits zero-valued defaulted
	// fields on insert, so Active=false would never reach the database.
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RolePM identifies preventive maintenance technicians.
	RolePM = "PM"
	// RoleFSE identifies field service engineers.
	RoleFSE = "FSE"
)
