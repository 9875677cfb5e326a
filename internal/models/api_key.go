package models

import "time"

type APIKey struct {
	BaseModel

	ProjectID  uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Key        string `gorm:"uniqueIndex;not null"`
	LastUsedAt *time.Time

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
