package models

import (
	"time"

	"gorm.io/gorm"
)

type Airport struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(100);not null" json:"name"`
	Code          string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Address       string         `gorm:"type:varchar(255)" json:"address"`
	RunwayCount   int            `json:"runway_count"`
	RunwayType    string         `gorm:"type:varchar(50)" json:"runway_type"`
	IsOperational bool           `gorm:"not null;default:true" json:"is_operational"`
	Level         string         `gorm:"type:varchar(2)" json:"level"`
	Notes         *string        `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
