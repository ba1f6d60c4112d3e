package model

import "github.com/google/uuid"

// SubmissionModel mirrors the 'submissions' table. IDs are opaque strings
// generated at intake; timestamps are epoch seconds. RunTimeMs and
// RunMemoryByte stay NULL until the grading worker writes a verdict.
type SubmissionModel struct {
	ID            string    `gorm:"type:varchar(32);primary_key"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProblemID     string    `gorm:"type:varchar(64);not null;index"`
	Status        string    `gorm:"type:varchar(32);not null"`
	Language      string    `gorm:"type:varchar(32);not null"`
	Code          string    `gorm:"type:text;not null"`
	CodeSizeByte  int64     `gorm:"not null"`
	RunTimeMs     *int64
	RunMemoryByte *int64
	CreatedAtS    int64 `gorm:"not null"`
	UpdatedAtS    int64 `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (SubmissionModel) TableName() string {
	return "submissions"
}
