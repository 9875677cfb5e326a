package models

type Profile struct {
	BaseModel

	Name      string `gorm:"not null"`
	ProjectID uint   `gorm:"not null;index"`

	// Relationships
	Project             Project              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	ServerConfigs       []ServerConfig       `gorm:"foreignKey:ProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CustomServerConfigs []CustomServerConfig `gorm:"foreignKey:ProfileID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
