package dto

import "github.com/fieldscribe/scribe-api/internal/models"

// TechnicianResponse lists one selectable technician for the form dropdown.
type TechnicianResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// NewTechnicianResponseSlice converts technician models into DTOs.
func NewTechnicianResponseSlice(technicians []models.Technician) []TechnicianResponse {
	responses := make([]TechnicianResponse, 0, len(technicians))
	for _, technician := range technicians {
		responses = append(responses, TechnicianResponse{
			ID:   technician.ID,
			Name: technician.Name,
			Role: technician.Role,
		})
	}

	return responses
}

// SpecificationsResponse bundles everything the form needs to render the two
// specification dropdowns for a selected model: the selectable options, the
// model's default values, and the per-equipment-type display labels.
type SpecificationsResponse struct {
	Spec2Options []string `json:"spec2_options"`
	Spec3Options []string `json:"spec3_options"`
	DefaultSpec2 string   `json:"default_spec2"`
	DefaultSpec3 string   `json:"default_spec3"`
	Spec2Label   string   `json:"spec2_label"`
	Spec3Label   string   `json:"spec3_label"`
}
