package model

// LoginTokenModel mirrors the 'tokens' table. Timestamps are epoch seconds;
// a NULL ConsumedAtS marks the token as still usable.
type LoginTokenModel struct {
	Token       string `gorm:"type:varchar(64);primary_key"`
	Email       string `gorm:"type:varchar(255);not null;index"`
	Purpose     string `gorm:"type:varchar(32);not null;default:'login'"`
	CreatedAtS  int64  `gorm:"not null"`
	ExpiresAtS  int64  `gorm:"not null"`
	ConsumedAtS *int64
}

// TableName explicitly sets the table name for GORM.
func (LoginTokenModel) TableName() string {
	return "tokens"
}
