package models

import (
	"gorm.io/datatypes"
)

// ServerConfig is a hosted retrieval-server entry attached to a profile.
// Config is an opaque payload forwarded to the server as-is.
type ServerConfig struct {
	BaseModel

	ProfileID uint           `gorm:"not null;index"`
	Name      string         `gorm:"not null"`
	Config    datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

// CustomServerConfig is a user-managed server launched from a command line
// rather than a hosted catalog entry.
type CustomServerConfig struct {
	BaseModel

	ProfileID uint           `gorm:"not null;index"`
	Name      string         `gorm:"not null"`
	Command   string         `gorm:"not null"`
	Args      datatypes.JSON `gorm:"type:jsonb"`
	Env       datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
