package models

import (
	"time"

	"gorm.io/datatypes"
)

// EquipmentModel is one reference row in the manufacturer / equipment type /
// model hierarchy the capture form navigates. Spec2 and Spec3 hold the two
// specification values the form collects; Extra carries any additional spec
// key/values sourced from upstream catalogues.
type EquipmentModel struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Manufacturer  string            `gorm:"size:255;not null;index:idx_equipment_coord,unique" json:"manufacturer"`
	EquipmentType string            `gorm:"size:255;not null;index:idx_equipment_coord,unique" json:"equipment_type"`
	Model         string            `gorm:"size:255;not null;index:idx_equipment_coord,unique" json:"model"`
	Spec2         string            `gorm:"size:255" json:"spec2"`
	Spec3         string            `gorm:"size:255" json:"spec3"`
	Extra         datatypes.JSONMap `gorm:"type:json" json:"extra,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// SpecLabel maps an equipment type to the display labels of its two
// specification fields, so the form can title them per equipment type.
type SpecLabel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EquipmentType string    `gorm:"size:255;not null;uniqueIndex" json:"equipment_type"`
	Spec2Label    string    `gorm:"size:255" json:"spec2_label"`
	Spec3Label    string    `gorm:"size:255" json:"spec3_label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
