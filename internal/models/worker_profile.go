package models

import "time"

type WorkerProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Position    string `gorm:"size:100" json:"position"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkerSchedule is one weekday window of a worker's bookable hours.
type WorkerSchedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	WorkerID uint `gorm:"index:idx_worker_weekday,unique" json:"worker_id"`

	Weekday int `gorm:"index:idx_worker_weekday,unique" json:"weekday"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Active    bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
