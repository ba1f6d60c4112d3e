package model

// ProblemModel mirrors the 'problems' table. LanguageLimit is a JSON array
// of allowed language identifiers; an empty array allows every language.
type ProblemModel struct {
	ID                string `gorm:"type:varchar(64);primary_key"`
	CodeSizeLimitByte int64  `gorm:"not null"`
	TimeLimitMs       int64  `gorm:"not null"`
	MemoryLimitByte   int64  `gorm:"not null"`
	LanguageLimit     string `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName explicitly sets the table name for GORM.
func (ProblemModel) TableName() string {
	return "problems"
}
