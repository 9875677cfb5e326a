package models

// AuthLinkage ties a user to an external identity provider account.
type AuthLinkage struct {
	BaseModel

	UserID            uint   `gorm:"not null;index"`
	Provider          string `gorm:"not null;uniqueIndex:idx_provider_account"`
	ProviderAccountID string `gorm:"not null;uniqueIndex:idx_provider_account"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
