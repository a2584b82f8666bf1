package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`

	Type    string `gorm:"size:40" json:"type"`
	Title   string `gorm:"size:100" json:"title"`
	Message string `gorm:"type:text" json:"message"`
	Link    string `gorm:"size:255" json:"link"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
