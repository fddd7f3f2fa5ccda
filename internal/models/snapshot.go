package models

import "time"

// BoardSnapshot stores the serialized engine state
type BoardSnapshot struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	State     []byte    `gorm:"not null" json:"-"`
	Boards    int       `gorm:"not null" json:"boards"`
	Tasks     int       `gorm:"not null" json:"tasks"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// Preference is a per-user display preference keyed by an opaque string
type Preference struct {
	UserID    string    `gorm:"type:varchar(64);primarykey" json:"userId"`
	Key       string    `gorm:"type:varchar(128);primarykey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}
