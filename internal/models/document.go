package models

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"gorm.io/gorm"
)

type Document struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	FlightID     uint64         `gorm:"not null;index" json:"flight_id"`
	DocumentType string         `gorm:"type:varchar(50);not null;index" json:"document_type"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Content      string         `gorm:"type:text" json:"content"`
	CanEdit      bool           `gorm:"not null;default:false" json:"can_edit"`
	CreatedBy    uint64         `gorm:"not null;index" json:"created_by"`
	EditedBy     *uint64        `json:"edited_by"`
	EditedAt     *time.Time     `json:"edited_at"`
	FilePath     string         `gorm:"type:varchar(500)" json:"-"`
	FileName     string         `gorm:"type:varchar(255)" json:"file_name"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Flight  *Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
	Creator *User   `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Editor  *User   `gorm:"foreignKey:EditedBy" json:"editor,omitempty"`
}

// Facts returns the attributes document permissions are decided on.
func (d Document) Facts() rbac.DocumentFacts {
	return rbac.DocumentFacts{
		FlightID:  d.FlightID,
		CreatedBy: d.CreatedBy,
		CanEdit:   d.CanEdit,
	}
}
