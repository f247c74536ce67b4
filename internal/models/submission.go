package models

import "time"

// Submission is one completed QA capture form. Rows are immutable after
// insert; there is no update path.
type Submission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TechnicianID  uint       `gorm:"not null" json:"technician_id"`
	Manufacturer  string     `gorm:"size:255;not null" json:"manufacturer"`
	EquipmentType string     `gorm:"size:255;not null" json:"equipment_type"`
	Model         string     `gorm:"size:255;not null" json:"model"`
	Spec2         string     `gorm:"size:255" json:"spec2"`
	Spec3         string     `gorm:"size:255" json:"spec3"`
	Notes         string     `gorm:"type:text" json:"notes"`
	Transcript    string     `gorm:"type:text" json:"transcript"`
	QAText        string     `gorm:"type:text;not null" json:"qa_text"`
	NumQuestions  int        `gorm:"not null" json:"num_questions"`
	NumAnswers    int        `gorm:"not null" json:"num_answers"`
	PointsAwarded int        `gorm:"not null" json:"points_awarded"`
	AudioURL      string     `gorm:"size:512" json:"audio_url"`
	AudioChecksum string     `gorm:"size:64" json:"audio_checksum"`
	DocumentURL   string     `gorm:"size:512" json:"document_url"`
	Checksum      string     `gorm:"size:64;not null;uniqueIndex" json:"checksum"`
	EntryTime     time.Time  `gorm:"not null" json:"entry_time"`
	CreatedAt     time.Time  `json:"created_at"`
	Technician    Technician `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"technician"`
	Pairs         []QAPair   `gorm:"constraint:OnDelete:CASCADE" json:"pairs"`
}

// QAPair stores one extracted question/answer pair of a submission, ordered
// by Position.
type QAPair struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	SubmissionID uint   `gorm:"not null;index" json:"submission_id"`
	Position     int    `gorm:"not null" json:"position"`
	Question     string `gorm:"type:text;not null" json:"question"`
	Answer       string `gorm:"type:text;not null" json:"answer"`
}
