package model

import "github.com/google/uuid"

// AuthLogModel mirrors the 'auth_logs' table. EmailHash and IPHash hold
// keyed HMAC digests, never the raw values.
type AuthLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Type       string    `gorm:"type:varchar(32);not null;index:idx_auth_logs_type_ip"`
	EmailHash  string    `gorm:"type:varchar(64);not null"`
	IPHash     string    `gorm:"type:varchar(64);not null;index:idx_auth_logs_type_ip"`
	UserAgent  string    `gorm:"type:varchar(512)"`
	Details    string    `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAtS int64     `gorm:"not null;index"`
}

// TableName explicitly sets the table name for GORM.
func (AuthLogModel) TableName() string {
	return "auth_logs"
}
