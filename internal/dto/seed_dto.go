package dto

// SeedTechniciansRequest carries a batch of technicians to upsert.
type SeedTechniciansRequest struct {
	Token string           `json:"token"`
	Items []TechnicianSeed `json:"items"`
}

// TechnicianSeed is one technician row in a seeding batch.
type TechnicianSeed struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active,omitempty"`
}

// SeedEquipmentRequest carries equipment models and spec labels to upsert.
type SeedEquipmentRequest struct {
	Token  string               `json:"token"`
	Models []EquipmentModelSeed `json:"models"`
	Labels []SpecLabelSeed      `json:"labels,omitempty"`
}

// EquipmentModelSeed is one equipment reference row in a seeding batch.
type EquipmentModelSeed struct {
	Manufacturer  string            `json:"manufacturer"`
	EquipmentType string            `json:"equipment_type"`
	Model         string            `json:"model"`
	Spec2         string            `json:"spec2,omitempty"`
	Spec3         string            `json:"spec3,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// SpecLabelSeed maps an equipment type to its specification display labels.
type SpecLabelSeed struct {
	EquipmentType string `json:"equipment_type"`
	Spec2Label    string `json:"spec2_label,omitempty"`
	Spec3Label    string `json:"spec3_label,omitempty"`
}

// SeedResponse reports how many rows a seeding call touched.
type SeedResponse struct {
	Affected int64 `json:"affected"`
}
