package dto

import (
	"time"

	"github.com/fieldscribe/scribe-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload of a new QA form
// submission. Counts and points are always computed server-side.
type SubmissionCreateRequest struct {
	TechnicianName string `form:"technician" validate:"required,min=2"`
	Manufacturer   string `form:"manufacturer" validate:"required"`
	EquipmentType  string `form:"equipment_type" validate:"required"`
	Model          string `form:"model" validate:"required"`
	Spec2          string `form:"spec2"`
	Spec3          string `form:"spec3"`
	Notes          string `form:"notes"`
	Transcript     string `form:"transcript"`
	QAText         string `form:"qa_text" validate:"required"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	TechnicianID  *uint   `query:"technician_id"`
	Manufacturer  *string `query:"manufacturer"`
	EquipmentType *string `query:"equipment_type"`
}

// QAPairResponse serializes one question/answer pair.
type QAPairResponse struct {
	Position int    `json:"position"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TechnicianLite summarizes the submitting technician.
type TechnicianLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            uint             `json:"id"`
	Technician    TechnicianLite   `json:"technician"`
	Manufacturer  string           `json:"manufacturer"`
	EquipmentType string           `json:"equipment_type"`
	Model         string           `json:"model"`
	Spec2         string           `json:"spec2"`
	Spec3         string           `json:"spec3"`
	Notes         string           `json:"notes"`
	Transcript    string           `json:"transcript"`
	QAText        string           `json:"qa_text"`
	Pairs         []QAPairResponse `json:"pairs"`
	NumQuestions  int              `json:"num_questions"`
	NumAnswers    int              `json:"num_answers"`
	PointsAwarded int              `json:"points_awarded"`
	AudioURL      string           `json:"audio_url,omitempty"`
	DocumentURL   string           `json:"document_url,omitempty"`
	Checksum      string           `json:"checksum"`
	EntryTime     time.Time        `json:"entry_time"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:            model.ID,
		Manufacturer:  model.Manufacturer,
		EquipmentType: model.EquipmentType,
		Model:         model.Model,
		Spec2:         model.Spec2,
		Spec3:         model.Spec3,
		Notes:         model.Notes,
		Transcript:    model.Transcript,
		QAText:        model.QAText,
		NumQuestions:  model.NumQuestions,
		NumAnswers:    model.NumAnswers,
		PointsAwarded: model.PointsAwarded,
		AudioURL:      model.AudioURL,
		DocumentURL:   model.DocumentURL,
		Checksum:      model.Checksum,
		EntryTime:     model.EntryTime,
		CreatedAt:     model.CreatedAt,
	}

	if model.Technician.ID != 0 {
		response.Technician = TechnicianLite{
			ID:   model.Technician.ID,
			Name: model.Technician.Name,
			Role: model.Technician.Role,
		}
	}

	pairs := make([]QAPairResponse, 0, len(model.Pairs))
	for _, pair := range model.Pairs {
		pairs = append(pairs, QAPairResponse{
			Position: pair.Position,
			Question: pair.Question,
			Answer:   pair.Answer,
		})
	}
	response.Pairs = pairs

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
